package core

// MetricsSnapshot is a point-in-time copy of a CoordinationManager's
// aggregate counters plus its broad-phase profiler, safe to read and log
// between ticks (§5 — performance fields must never be read mid-tick).
type MetricsSnapshot struct {
	CoordinationMetrics
	BroadPhaseTests  uint64
	NarrowPhaseTests uint64
	TotalQueries     uint64
}

// Snapshot captures the manager's current metrics and the collision
// engine's profiler counters for the harness to log or export.
func (m *CoordinationManager) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{CoordinationMetrics: m.Metrics}
	if m.collisions != nil {
		s.BroadPhaseTests = m.collisions.Profiler.BroadPhaseTests
		s.NarrowPhaseTests = m.collisions.Profiler.NarrowPhaseTests
		s.TotalQueries = m.collisions.Profiler.TotalQueries
	}
	return s
}
