package main

import (
	"sync"

	"go.uber.org/zap"

	"github.com/abyssal-station/ai-collision-core/internal/core"
)

// zapPairSink adapts the resolver's core.EventSink callback to structured
// zap logging, the way the teacher logs significant gameplay events
// through its own sim log rather than fmt.Printf.
type zapPairSink struct {
	log *zap.Logger
}

func (s zapPairSink) OnCollisionPair(kind core.PairEventKind, a, b core.EntityHandle, dt float64) {
	s.log.Debug("collision_pair",
		zap.String("kind", kind.String()),
		zap.Uint64("a", uint64(a)),
		zap.Uint64("b", uint64(b)),
	)
}

// simulation bundles every collaborator the core needs plus the harness's
// own registry, wired together the way §6 describes the host assembling
// them: one registry, one spatial index, one collision engine, one
// resolver, one pathfinder, one movement helper, one coordination manager.
type simulation struct {
	registry   *demoRegistry
	collisions *core.CollisionEngine
	resolver   *core.CollisionResolver
	pathfinder *core.PathfindingEngine
	movement   *core.MovementHelper
	manager    *core.CoordinationManager
	players    []core.EntityHandle
	deaths     int
	log        *zap.Logger

	// snapMu guards snapshot, the only state a background metrics
	// goroutine is allowed to touch. manager's own fields are mutated by
	// UpdateAll every tick with no synchronization of their own (§5's
	// single-threaded tick guarantee assumes one caller), so Snapshot()
	// itself is only ever called from step(), right after UpdateAll
	// returns; snapshot is then the sole cross-goroutine handoff point.
	snapMu   sync.Mutex
	snapshot core.MetricsSnapshot
}

// buildSimulation constructs a fully wired simulation from a decoded
// scenario file. Walls are inserted as static (non-dynamic) colliders on
// LayerWall; players and agents are dynamic colliders on LayerPlayer and
// LayerEnemy respectively, matching the default LayerMatrix (§3: every
// pair true except Item-vs-Item).
func buildSimulation(sf scenarioFile, log *zap.Logger) *simulation {
	reg := newDemoRegistry()
	index := core.NewHashGrid(sf.GridSize * 2)
	collisions := core.NewCollisionEngine(reg, index)
	resolver := core.NewCollisionResolver(collisions, zapPairSink{log: log})
	pathfinder := core.NewPathfindingEngine(collisions)
	movement := core.NewMovementHelper(collisions)

	coordCfg := core.CoordinationConfig{
		EnableCoordination:         sf.Coordination.Enabled,
		AlertRadius:                sf.Coordination.AlertRadius,
		ShareTargetInformation:     sf.Coordination.ShareTargets,
		EnableGroupBehaviors:       sf.Coordination.GroupBehaviors,
		CoordinationUpdateInterval: 0.25,
	}
	coordCfg.Clamp()
	manager := core.NewCoordinationManager(coordCfg, reg, collisions, resolver, pathfinder, movement)

	sim := &simulation{
		registry: reg, collisions: collisions, resolver: resolver,
		pathfinder: pathfinder, movement: movement, manager: manager, log: log,
	}

	reg.onDeath = func(h core.EntityHandle) {
		sim.deaths++
		manager.OnDied(h)
	}

	for _, w := range sf.Walls {
		h := reg.spawn(toVec2(w.Position), toVec2(w.Size), core.LayerWall, core.KindWall, 0)
		collisions.AddOrUpdateRect(h, toVec2(w.Size), false)
	}
	for _, p := range sf.Players {
		h := reg.spawn(toVec2(p.Position), toVec2(p.Size), core.LayerPlayer, core.KindPlayer, p.Health)
		collisions.AddOrUpdateRect(h, toVec2(p.Size), true)
		sim.players = append(sim.players, h)
	}

	var patrols [][]core.Vec2
	for _, patrol := range sf.Patrols {
		var pts []core.Vec2
		for _, p := range patrol {
			pts = append(pts, toVec2(p))
		}
		patrols = append(patrols, pts)
	}

	for _, as := range sf.Agents {
		size := core.Vec2{X: 14, Y: 14}
		h := reg.spawn(toVec2(as.Position), size, core.LayerEnemy, core.KindEnemy, as.Health)
		collisions.AddOrUpdateRect(h, size, true)

		var patrol []core.Vec2
		if as.PatrolIndex >= 0 && as.PatrolIndex < len(patrols) {
			patrol = patrols[as.PatrolIndex]
		}

		cfg := core.AgentConfig{
			Profile: profileFromName(as.Profile),
			Perception: core.PerceptionConfig{
				SightRange: as.SightRange, SightAngleDeg: as.SightAngleDeg, HearingRange: as.HearingRange,
			},
			Pathfinding:       core.PathfindingConfig{GridSize: sf.GridSize, MaxIterations: 2000},
			HealthThreshold:   as.HealthThreshold,
			Aggression:        as.Aggression,
			Caution:           as.Caution,
			InvestigationTime: 3,
			AlertDuration:     5,
			Speed:             as.Speed,
			AttackRange:       as.AttackRange,
			AttackDamage:      as.AttackDamage,
			FleeDistance:      as.FleeDistance,
			CanAlertOthers:    true,
			AlertRadius:       sf.Coordination.AlertRadius,
			PrioritizePlayer:  true,
		}
		cfg.Clamp()

		agent := core.NewAgent(h, cfg, patrol)
		agent.HealthPct = 1
		manager.AddAgent(agent)
	}

	log.Info("scenario loaded",
		zap.String("name", sf.Name),
		zap.Int("agents", len(sf.Agents)),
		zap.Int("players", len(sf.Players)),
		zap.Int("walls", len(sf.Walls)),
	)
	return sim
}

// step advances the whole simulation by one fixed tick, then refreshes the
// mutex-guarded metrics snapshot a background goroutine may be reading.
// The demo harness gives players no behavior of their own; the only damage
// dealt is from agents' attacks through the registry's ApplyDamage, since
// Abyssal Station's player-input layer is out of scope for this core.
func (s *simulation) step(dt float64) {
	s.manager.UpdateAll(dt)

	snap := s.manager.Snapshot()
	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()
}

// cachedSnapshot returns the most recent metrics snapshot taken at a tick
// boundary. Safe to call concurrently with step — it never touches
// CoordinationManager directly, only the copy step() last handed off.
func (s *simulation) cachedSnapshot() core.MetricsSnapshot {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	return s.snapshot
}
