package core

import "math"

// FsmState is one node of the agent decision automaton (§3).
type FsmState int

const (
	StateIdle FsmState = iota
	StatePatrol
	StateChase
	StateAttack
	StateFlee
	StateReturn
	StateInvestigate
	StateAlert
	StateStunned
	StateDead
)

func (s FsmState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	case StateFlee:
		return "flee"
	case StateReturn:
		return "return"
	case StateInvestigate:
		return "investigate"
	case StateAlert:
		return "alert"
	case StateStunned:
		return "stunned"
	default:
		return "dead"
	}
}

// cooldowns holds an agent's timed re-arm windows; each only ever decreases
// via dt and is re-armed by the event that triggered it (§3 invariant).
type cooldowns struct {
	Attack       float64
	Flee         float64
	Alert        float64
	Investigation float64
	Stunned      float64
}

func (c *cooldowns) tick(dt float64) {
	c.Attack = maxF(0, c.Attack-dt)
	c.Flee = maxF(0, c.Flee-dt)
	c.Alert = maxF(0, c.Alert-dt)
	c.Investigation = maxF(0, c.Investigation-dt)
	c.Stunned = maxF(0, c.Stunned-dt)
}

// agentPerf tracks per-agent performance counters (§3). Updated in place
// during a tick; only safe to read between ticks (§5).
type agentPerf struct {
	PerceptionChecks uint64
	PathRequests     uint64
	StateChanges     uint64
	AvgUpdate        float64
	updateCount      uint64
}

func (p *agentPerf) recordUpdate(d float64) {
	p.updateCount++
	p.AvgUpdate += (d - p.AvgUpdate) / float64(p.updateCount)
}

// Agent is one entity's AI state: FSM, perception memory, targets, and
// pathing, bound to an owner handle (§3). The Coordination Manager owns
// every Agent; agents never hold pointers to one another.
type Agent struct {
	Owner EntityHandle
	Config AgentConfig

	State       FsmState
	PrevState   FsmState
	TimeInState float64

	PatrolPoints []Vec2
	PatrolIdx    int

	CurrentPath     []Vec2
	TargetPosition  Vec2

	Targets       map[EntityHandle]Priority
	PrimaryTarget EntityHandle

	LastSeenPlayer Vec2
	TimeSinceSeen  float64

	Cooldowns cooldowns
	Perf      agentPerf

	HealthPct float64

	// PendingAlert/PendingAlertPos record a broadcast request raised by
	// decide() (e.g. a Scout profile's "investigate, broadcast if
	// can_alert_others" row, §4.6) for the CoordinationManager to consume
	// and clear once per tick via AlertInRadius; an agent never calls the
	// manager directly (§9, no raw back-pointers between agents).
	PendingAlert    bool
	PendingAlertPos Vec2

	perception *PerceptionEngine
}

// NewAgent constructs an agent bound to owner with the given configuration.
// cfg is clamped at intake (ConfigOutOfRange, §7).
func NewAgent(owner EntityHandle, cfg AgentConfig, patrolPoints []Vec2) *Agent {
	cfg.Clamp()
	return &Agent{
		Owner:          owner,
		Config:         cfg,
		State:          StateIdle,
		PrevState:      StateIdle,
		PatrolPoints:   patrolPoints,
		Targets:        make(map[EntityHandle]Priority),
		PrimaryTarget:  NoEntity,
		HealthPct:      1,
		perception:     NewPerceptionEngine(),
	}
}

// transitionTo changes state, resetting TimeInState and updating PrevState
// (§4.6 step 6). Dead is absorbing: once entered, transitionTo is a no-op.
func (a *Agent) transitionTo(next FsmState) {
	if a.State == StateDead || next == a.State {
		return
	}
	a.PrevState = a.State
	a.State = next
	a.TimeInState = 0
	a.Perf.StateChanges++
	if next != StatePatrol && next != StateChase && next != StateReturn && next != StateInvestigate {
		a.CurrentPath = nil
	}
}

// addTarget upserts a target's priority and recomputes PrimaryTarget as the
// argmax over Targets, breaking ties by the lower handle value for
// determinism (§4.7 "ties broken by handle order").
func (a *Agent) addTarget(h EntityHandle, p Priority) {
	if len(a.Targets) >= a.Config.MaxTargets {
		if _, exists := a.Targets[h]; !exists {
			return
		}
	}
	a.Targets[h] = p
	a.recomputePrimaryTarget()
}

func (a *Agent) removeTarget(h EntityHandle) {
	delete(a.Targets, h)
	a.recomputePrimaryTarget()
}

func (a *Agent) recomputePrimaryTarget() {
	best := NoEntity
	bestP := Priority(0)
	for h, p := range a.Targets {
		if p > bestP || (p == bestP && (best == NoEntity || h < best)) {
			best, bestP = h, p
		}
	}
	a.PrimaryTarget = best
}

// targetPriority implements §4.6 step 2's target_priority(source).
func targetPriority(cfg AgentConfig, kind EntityKind, distance float64) Priority {
	if kind == KindPlayer && cfg.PrioritizePlayer {
		return PriorityHigh
	}
	if distance <= cfg.AttackRange {
		return PriorityHigh
	}
	if distance <= 0.5*cfg.Perception.SightRange {
		return PriorityMedium
	}
	return PriorityLow
}

func shouldAttack(cfg AgentConfig, kind EntityKind) bool {
	return kind == KindPlayer && cfg.Aggression > 0.3
}

// Tick advances this agent by dt (§4.6 tick procedure). now is a
// monotonically non-decreasing global clock supplied by the Coordination
// Manager — never a per-state or per-agent timer, since memory TTLs are
// computed as now-recorded_at and a resettable clock would corrupt that
// comparison (§9 design note on the source's memory bug).
// collisions and registry are the host-wide collaborators; pf and mv are
// the owning CoordinationManager's shared pathfinding/movement helpers.
func (a *Agent) Tick(dt, now float64, registry EntityRegistry, collisions *CollisionEngine, pf *PathfindingEngine, mv *MovementHelper) {
	snap, ok := registry.Get(a.Owner)
	if !ok || !snap.Active || a.State == StateDead {
		return
	}
	a.HealthPct = clamp01(a.HealthPct)

	a.TimeInState += dt
	a.TimeSinceSeen += dt
	a.Cooldowns.tick(dt)

	if a.Cooldowns.Stunned > 0 {
		a.executeStunned()
		return
	}

	events := a.perception.Update(a.Owner, snap.Position, a.facing(snap), a.Config.Perception, registry, collisions, now)
	a.Perf.PerceptionChecks++

	for _, e := range events {
		if e.Kind != PerceptionSight || e.Source == NoEntity {
			continue
		}
		srcSnap, ok := registry.Get(e.Source)
		if !ok {
			continue
		}
		if srcSnap.Kind == KindPlayer {
			a.LastSeenPlayer = e.Position
			a.TimeSinceSeen = 0
			a.addTarget(e.Source, PriorityHigh)
		}
	}

	newState := a.decide(snap, registry, events)
	if newState != a.State {
		a.transitionTo(newState)
	}

	a.execute(dt, snap, registry, collisions, pf, mv)
	a.Perf.recordUpdate(dt)
}

// facing returns a stand-in facing angle: toward the head of the current
// path when there is one, otherwise +X (angle 0). The target's position is
// not consulted.
func (a *Agent) facing(snap EntitySnapshot) float64 {
	if len(a.CurrentPath) > 0 {
		d := a.CurrentPath[0].Sub(snap.Position)
		if d.Length() > 1e-6 {
			return angleOf(d)
		}
	}
	return 0
}

func angleOf(v Vec2) float64 {
	return normalizeAngle(math.Atan2(v.Y, v.X))
}

// decide runs the top-down decision procedure of §4.6.
func (a *Agent) decide(snap EntitySnapshot, registry EntityRegistry, events []PerceptionEvent) FsmState {
	// Flee gate (step 1).
	if a.HealthPct < a.Config.HealthThreshold && a.Config.Caution > 0.5 {
		dir := Vec2{}
		count := 0
		for _, e := range events {
			if e.Source == NoEntity {
				continue
			}
			away := snap.Position.Sub(e.Position)
			if l := away.Length(); l > 1e-6 {
				dir = dir.Add(away.Scale(1 / l))
				count++
			}
		}
		if count > 0 {
			dir = dir.Normalize()
			a.TargetPosition = snap.Position.Add(dir.Scale(a.Config.FleeDistance))
		} else {
			a.TargetPosition = snap.Position
		}
		a.addTarget(primarySightSource(events), PriorityCritical)
		return StateFlee
	}

	// Candidate target selection (step 2).
	var bestSrc EntityHandle = NoEntity
	bestPriority := Priority(0)
	for _, e := range events {
		if e.Source == NoEntity {
			continue
		}
		srcSnap, ok := registry.Get(e.Source)
		if !ok {
			continue
		}
		d := snap.Position.Distance(e.Position)
		p := targetPriority(a.Config, srcSnap.Kind, d)
		if p > bestPriority {
			bestPriority, bestSrc = p, e.Source
		}
	}

	if bestSrc != NoEntity {
		targetSnap, _ := registry.Get(bestSrc)
		d := snap.Position.Distance(targetSnap.Position)
		if s, ok := a.profileTransition(bestPriority, targetSnap.Kind, d); ok {
			if s == StateChase {
				a.TargetPosition = targetSnap.Position
			}
			if s == StateInvestigate {
				a.TargetPosition = targetSnap.Position
				if a.State != StateInvestigate {
					a.Cooldowns.Investigation = a.Config.InvestigationTime
				}
			}
			if s == StateInvestigate && a.Config.Profile == ProfileScout && a.Config.CanAlertOthers {
				a.PendingAlert = true
				a.PendingAlertPos = targetSnap.Position
			}
			return s
		}
	}

	// No-target defaults (step 4).
	switch a.State {
	case StateIdle:
		if len(a.PatrolPoints) > 0 {
			return StatePatrol
		}
	case StateChase, StateInvestigate:
		if a.TimeSinceSeen > a.Config.InvestigationTime {
			return StateReturn
		}
	case StateAlert:
		if a.Cooldowns.Alert <= 0 {
			if len(a.PatrolPoints) > 0 {
				return StatePatrol
			}
			return StateIdle
		}
	case StateReturn:
		if len(a.PatrolPoints) > 0 && snap.Position.Distance(a.PatrolPoints[a.PatrolIdx]) < 32 {
			return StatePatrol
		}
	}
	return a.State
}

func primarySightSource(events []PerceptionEvent) EntityHandle {
	for _, e := range events {
		if e.Source != NoEntity {
			return e.Source
		}
	}
	return NoEntity
}

// profileTransition implements the profile-driven transition table of §4.6.
func (a *Agent) profileTransition(priority Priority, kind EntityKind, d float64) (FsmState, bool) {
	cfg := a.Config
	switch cfg.Profile {
	case ProfileAggressive:
		if d <= cfg.AttackRange && shouldAttack(cfg, kind) {
			return StateAttack, true
		}
		if priority >= PriorityMedium {
			return StateChase, true
		}
	case ProfileDefensive:
		if priority >= PriorityHigh && d <= 2*cfg.AttackRange {
			return StateFlee, true
		}
		if priority >= PriorityHigh {
			return StateAlert, true
		}
	case ProfileNeutral:
		if d <= cfg.AttackRange && shouldAttack(cfg, kind) {
			return StateAttack, true
		}
		if priority >= PriorityHigh {
			return StateChase, true
		}
	case ProfilePassive:
		if priority >= PriorityHigh {
			return StateFlee, true
		}
	case ProfileGuard:
		if d <= cfg.AttackRange && shouldAttack(cfg, kind) {
			return StateAttack, true
		}
		if priority >= PriorityMedium {
			return StateAlert, true
		}
	case ProfileScout:
		if priority >= PriorityMedium {
			return StateInvestigate, true
		}
	}
	return a.State, false
}

// execute runs the current state's executor (§4.6 state executors).
func (a *Agent) execute(dt float64, snap EntitySnapshot, registry EntityRegistry, collisions *CollisionEngine, pf *PathfindingEngine, mv *MovementHelper) {
	switch a.State {
	case StateIdle:
	case StatePatrol:
		a.executePatrol(dt, snap, registry, collisions, pf, mv)
	case StateChase:
		a.executeChase(dt, snap, registry, collisions, pf, mv)
	case StateAttack:
		a.executeAttack(snap, registry)
	case StateFlee:
		a.executeFlee(dt, snap, registry, collisions, pf, mv)
	case StateReturn:
		a.executeReturn(dt, snap, registry, collisions, pf, mv)
	case StateInvestigate:
		a.executeInvestigate(dt, snap, registry, collisions, pf, mv)
	case StateAlert:
		// Hold position; the no-target-defaults branch handles the exit.
	case StateStunned:
		a.executeStunned()
	case StateDead:
	}
}

func (a *Agent) executePatrol(dt float64, snap EntitySnapshot, registry EntityRegistry, collisions *CollisionEngine, pf *PathfindingEngine, mv *MovementHelper) {
	if len(a.PatrolPoints) == 0 {
		return
	}
	if snap.Position.Distance(a.PatrolPoints[a.PatrolIdx]) < 32 {
		a.PatrolIdx = (a.PatrolIdx + 1) % len(a.PatrolPoints)
	}
	a.updatePath(snap.Position, a.PatrolPoints[a.PatrolIdx], pf)
	a.followPath(dt, snap, registry, collisions, mv)
}

func (a *Agent) executeChase(dt float64, snap EntitySnapshot, registry EntityRegistry, collisions *CollisionEngine, pf *PathfindingEngine, mv *MovementHelper) {
	if a.PrimaryTarget == NoEntity {
		a.transitionTo(StateReturn)
		return
	}
	targetSnap, ok := registry.Get(a.PrimaryTarget)
	if !ok || !targetSnap.Active {
		a.removeTarget(a.PrimaryTarget)
		a.transitionTo(StateReturn)
		return
	}
	a.updatePath(snap.Position, targetSnap.Position, pf)
	a.followPath(dt, snap, registry, collisions, mv)
}

func (a *Agent) executeAttack(snap EntitySnapshot, registry EntityRegistry) {
	if a.PrimaryTarget == NoEntity {
		a.transitionTo(StateChase)
		return
	}
	targetSnap, ok := registry.Get(a.PrimaryTarget)
	if !ok || !targetSnap.Active {
		a.removeTarget(a.PrimaryTarget)
		a.transitionTo(StateChase)
		return
	}
	d := snap.Position.Distance(targetSnap.Position)
	if d > a.Config.AttackRange {
		a.transitionTo(StateChase)
		return
	}
	if a.Cooldowns.Attack <= 0 {
		registry.ApplyDamage(a.PrimaryTarget, a.Config.AttackDamage)
		a.Cooldowns.Attack = a.Config.AttackCooldown
	}
}

func (a *Agent) executeFlee(dt float64, snap EntitySnapshot, registry EntityRegistry, collisions *CollisionEngine, pf *PathfindingEngine, mv *MovementHelper) {
	if a.Cooldowns.Flee > 0 {
		return
	}
	a.updatePath(snap.Position, a.TargetPosition, pf)
	a.followPath(dt, snap, registry, collisions, mv)

	maxDist := 0.0
	for h := range a.Targets {
		if targetSnap, ok := registry.Get(h); ok {
			if d := snap.Position.Distance(targetSnap.Position); d > maxDist {
				maxDist = d
			}
		}
	}
	if maxDist >= a.Config.FleeDistance {
		a.transitionTo(StateAlert)
		a.Cooldowns.Alert = a.Config.AlertDuration
		a.Cooldowns.Flee = a.Config.FleeCooldownDuration
	}
}

func (a *Agent) executeReturn(dt float64, snap EntitySnapshot, registry EntityRegistry, collisions *CollisionEngine, pf *PathfindingEngine, mv *MovementHelper) {
	if len(a.PatrolPoints) == 0 {
		return
	}
	nearest := a.nearestPatrolPoint(snap.Position)
	a.updatePath(snap.Position, nearest, pf)
	a.followPath(dt, snap, registry, collisions, mv)
	if snap.Position.Distance(nearest) < 32 {
		a.transitionTo(StatePatrol)
	}
}

func (a *Agent) executeInvestigate(dt float64, snap EntitySnapshot, registry EntityRegistry, collisions *CollisionEngine, pf *PathfindingEngine, mv *MovementHelper) {
	a.updatePath(snap.Position, a.TargetPosition, pf)
	a.followPath(dt, snap, registry, collisions, mv)
	if snap.Position.Distance(a.TargetPosition) < 32 || a.Cooldowns.Investigation <= 0 {
		a.transitionTo(StateAlert)
		a.Cooldowns.Alert = a.Config.AlertDuration
	}
}

func (a *Agent) executeStunned() {
	if a.Cooldowns.Stunned <= 0 {
		a.State = a.PrevState
	}
}

func (a *Agent) nearestPatrolPoint(pos Vec2) Vec2 {
	best := a.PatrolPoints[0]
	bestD := pos.Distance(best)
	bestIdx := 0
	for i, p := range a.PatrolPoints {
		if d := pos.Distance(p); d < bestD {
			best, bestD, bestIdx = p, d, i
		}
	}
	a.PatrolIdx = bestIdx
	return best
}

// updatePath implements update_path(dest) (§4.6): requests a new path only
// if the current one is empty or the agent is more than 64 units from dest.
func (a *Agent) updatePath(from, dest Vec2, pf *PathfindingEngine) {
	if len(a.CurrentPath) > 0 && from.Distance(dest) <= 64 {
		return
	}
	result := pf.FindPath(from, dest, a.Config.Pathfinding, a.Owner)
	a.Perf.PathRequests++
	if result.Success {
		a.CurrentPath = result.Waypoints
	} else {
		a.CurrentPath = nil
	}
}

// followPath implements follow_path(dt) (§4.6): steps toward the head
// waypoint at speed*dt via the Movement Helper, popping it once within 16.
func (a *Agent) followPath(dt float64, snap EntitySnapshot, registry EntityRegistry, collisions *CollisionEngine, mv *MovementHelper) {
	if len(a.CurrentPath) == 0 {
		return
	}
	head := a.CurrentPath[0]
	toHead := head.Sub(snap.Position)
	dist := toHead.Length()
	if dist < 16 {
		a.CurrentPath = a.CurrentPath[1:]
		return
	}

	travel := a.Config.Speed * dt
	if travel > dist {
		travel = dist
	}
	step := toHead.Normalize().Scale(travel)
	intended := snap.Position.Add(step)
	result := mv.ComputeMove(a.Owner, snap.Position, intended, snap.Size, snap.Layer, ^uint32(0), MovementSlide, 4)
	registry.SetPosition(a.Owner, result.FinalPos)
}

// OnDamageReceived implements the agent event handler of §4.7.
func (a *Agent) OnDamageReceived(amount float64, src EntityHandle) {
	if src != NoEntity {
		a.addTarget(src, PriorityCritical)
	}
	a.Cooldowns.Alert = a.Config.AlertDuration
	if a.State == StateIdle || a.State == StatePatrol {
		a.transitionTo(StateAlert)
	}
}

// OnSoundHeard implements the agent event handler of §4.7.
func (a *Agent) OnSoundHeard(pos Vec2, intensity float64) {
	if intensity > 0.5 && (a.State == StateIdle || a.State == StatePatrol) {
		a.TargetPosition = pos
		a.Cooldowns.Investigation = a.Config.InvestigationTime
		a.transitionTo(StateInvestigate)
	}
}

// OnAlertReceived implements the agent event handler of §4.7.
func (a *Agent) OnAlertReceived(pos Vec2, src EntityHandle) {
	if a.State == StateIdle || a.State == StatePatrol {
		a.TargetPosition = pos
		a.Cooldowns.Alert = a.Config.AlertDuration
		a.transitionTo(StateAlert)
	}
}

// OnEntityDied implements the agent event handler of §4.7.
func (a *Agent) OnEntityDied(h EntityHandle) {
	a.removeTarget(h)
	a.perception.Forget(h)
}
