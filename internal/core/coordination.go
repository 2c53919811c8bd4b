package core

// CoordinationManager owns every Agent, ticks them in deterministic
// insertion order, and brokers cross-agent events (damage, sound, alerts,
// target gossip) so agents never hold references to one another (C7, §4.7,
// §9 "raw back-pointers ... replaced by message passing").
type CoordinationManager struct {
	Config CoordinationConfig

	agents      map[EntityHandle]*Agent
	order       []EntityHandle // insertion order, for deterministic ticking
	sharedTargets map[EntityHandle]Vec2
	recentAlerts  []Vec2

	registry   EntityRegistry
	collisions *CollisionEngine
	resolver   *CollisionResolver
	pathfinder *PathfindingEngine
	movement   *MovementHelper

	now                   float64
	sinceCoordinationPass float64
	sinceMetricsPass      float64

	Metrics CoordinationMetrics
}

// CoordinationMetrics aggregates per-tick counters across every active agent.
type CoordinationMetrics struct {
	ActiveAgents     int
	TotalStateChanges uint64
	TotalPathRequests uint64
}

// NewCoordinationManager wires a manager over the shared engines. cfg is
// clamped at intake.
func NewCoordinationManager(cfg CoordinationConfig, registry EntityRegistry, collisions *CollisionEngine, resolver *CollisionResolver, pathfinder *PathfindingEngine, movement *MovementHelper) *CoordinationManager {
	cfg.Clamp()
	return &CoordinationManager{
		Config:        cfg,
		agents:        make(map[EntityHandle]*Agent),
		sharedTargets: make(map[EntityHandle]Vec2),
		registry:      registry,
		collisions:    collisions,
		resolver:      resolver,
		pathfinder:    pathfinder,
		movement:      movement,
	}
}

// AddAgent binds a new agent to the manager, appending it to the
// deterministic tick order.
func (m *CoordinationManager) AddAgent(a *Agent) {
	if _, exists := m.agents[a.Owner]; exists {
		return
	}
	m.agents[a.Owner] = a
	m.order = append(m.order, a.Owner)
}

// RemoveAgent unbinds the agent owned by handle, if any.
func (m *CoordinationManager) RemoveAgent(handle EntityHandle) {
	if _, ok := m.agents[handle]; !ok {
		return
	}
	delete(m.agents, handle)
	for i, h := range m.order {
		if h == handle {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Agent returns the agent bound to handle, if any.
func (m *CoordinationManager) Agent(handle EntityHandle) (*Agent, bool) {
	a, ok := m.agents[handle]
	return a, ok
}

// UpdateAll runs update_all(dt) (§4.7): the periodic coordination pass,
// then ticks every active agent in insertion order, then periodic metrics.
func (m *CoordinationManager) UpdateAll(dt float64) {
	m.now += dt

	m.sinceCoordinationPass += dt
	if m.sinceCoordinationPass >= m.Config.CoordinationUpdateInterval {
		m.sinceCoordinationPass = 0
		m.runCoordinationPass()
	}

	for _, h := range m.order {
		a := m.agents[h]
		if a == nil {
			continue
		}
		a.Tick(dt, m.now, m.registry, m.collisions, m.pathfinder, m.movement)
		if m.resolver != nil {
			m.resolver.Resolve(h, dt)
		}
		if a.PendingAlert {
			a.PendingAlert = false
			m.AlertInRadius(a.PendingAlertPos, a.Config.AlertRadius, h)
		}
	}
	if m.resolver != nil {
		m.resolver.EndTick(dt)
	}

	m.sinceMetricsPass += dt
	if m.sinceMetricsPass >= 1 {
		m.sinceMetricsPass = 0
		m.recomputeMetrics()
	}
}

// runCoordinationPass publishes each agent's primary target into the shared
// gossip table and propagates every shared target to all active agents at
// Medium priority, per §4.7 step 1.
func (m *CoordinationManager) runCoordinationPass() {
	if !m.Config.EnableCoordination || !m.Config.ShareTargetInformation {
		return
	}
	for _, h := range m.order {
		a := m.agents[h]
		if a == nil || a.PrimaryTarget == NoEntity {
			continue
		}
		if snap, ok := m.registry.Get(a.PrimaryTarget); ok {
			m.sharedTargets[a.PrimaryTarget] = snap.Position
		}
	}
	for target := range m.sharedTargets {
		for _, h := range m.order {
			a := m.agents[h]
			if a == nil || a.PrimaryTarget == target {
				continue
			}
			a.addTarget(target, PriorityMedium)
		}
	}
}

func (m *CoordinationManager) recomputeMetrics() {
	var metrics CoordinationMetrics
	for _, h := range m.order {
		a := m.agents[h]
		if a == nil {
			continue
		}
		metrics.ActiveAgents++
		metrics.TotalStateChanges += a.Perf.StateChanges
		metrics.TotalPathRequests += a.Perf.PathRequests
	}
	m.Metrics = metrics
}

func (m *CoordinationManager) pushAlert(pos Vec2) {
	m.recentAlerts = append(m.recentAlerts, pos)
	if len(m.recentAlerts) > recentAlertsCap {
		m.recentAlerts = m.recentAlerts[len(m.recentAlerts)-recentAlertsCap:]
	}
}

// OnDamaged implements the Coordination Manager's on_damaged event (§4.7):
// forwards to the victim's agent, then broadcasts an alert within
// alert_radius if coordination is enabled and the source is known.
func (m *CoordinationManager) OnDamaged(victim EntityHandle, amount float64, source EntityHandle) {
	if a, ok := m.agents[victim]; ok {
		a.OnDamageReceived(amount, source)
	}
	if !m.Config.EnableCoordination || source == NoEntity {
		return
	}
	if snap, ok := m.registry.Get(victim); ok {
		m.AlertInRadius(snap.Position, m.Config.AlertRadius, source)
	}
}

// OnDied implements on_died (§4.7): drops the entity from shared_targets,
// notifies every agent, and unbinds any agent owned by it.
func (m *CoordinationManager) OnDied(entity EntityHandle) {
	delete(m.sharedTargets, entity)
	for _, h := range m.order {
		if a := m.agents[h]; a != nil {
			a.OnEntityDied(entity)
		}
	}
	m.RemoveAgent(entity)
}

// OnSound implements on_sound (§4.7): if coordination is enabled, notifies
// agents within intensity*150 world units of position via on_sound_heard,
// which decides for itself (intensity > 0.5, idle/patrol) whether to
// investigate — distinct from alert_in_radius's unconditional on_alert_received.
func (m *CoordinationManager) OnSound(position Vec2, intensity float64, source EntityHandle) {
	if !m.Config.EnableCoordination {
		return
	}
	r := intensity * 150
	for _, h := range m.order {
		a := m.agents[h]
		if a == nil {
			continue
		}
		if snap, ok := m.registry.Get(h); ok && snap.Position.Distance(position) <= r {
			a.OnSoundHeard(position, intensity)
		}
	}
}

// AlertInRadius implements alert_in_radius (§4.7): records the alert and
// notifies every agent within r of pos.
func (m *CoordinationManager) AlertInRadius(pos Vec2, r float64, source EntityHandle) {
	m.pushAlert(pos)
	for _, h := range m.order {
		a := m.agents[h]
		if a == nil {
			continue
		}
		if snap, ok := m.registry.Get(h); ok && snap.Position.Distance(pos) <= r {
			a.OnAlertReceived(pos, source)
		}
	}
}

// RecentAlerts returns a copy of the bounded recent-alert history.
func (m *CoordinationManager) RecentAlerts() []Vec2 {
	out := make([]Vec2, len(m.recentAlerts))
	copy(out, m.recentAlerts)
	return out
}
