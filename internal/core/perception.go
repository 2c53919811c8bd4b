package core

import "math"

// PerceptionEventKind classifies one detection.
type PerceptionEventKind int

const (
	PerceptionSight PerceptionEventKind = iota
	PerceptionHearing
	PerceptionProximity
	PerceptionMemory
)

func (k PerceptionEventKind) String() string {
	switch k {
	case PerceptionSight:
		return "sight"
	case PerceptionHearing:
		return "hearing"
	case PerceptionProximity:
		return "proximity"
	default:
		return "memory"
	}
}

// PerceptionEvent is one detection an agent's perception step produced.
type PerceptionEvent struct {
	Kind      PerceptionEventKind
	Source    EntityHandle // detected entity; memory events carry the remembered subject's handle
	Position  Vec2
	Intensity float64 // 0..1
	Timestamp float64
	Duration  float64
}

// MemoryRecord is a remembered last-known position for one (observer, subject) pair.
type MemoryRecord struct {
	LastPosition Vec2
	RecordedAt   float64
}

// PerceptionConfig holds the tunable ranges and flags for one agent's senses.
type PerceptionConfig struct {
	SightRange      float64
	SightAngleDeg   float64
	HearingRange    float64
	ProximityRange  float64
	MemoryDuration  float64
	RequiresLOS     bool
	SightLayerMask  uint32
}

// Clamp constrains every field to its valid domain (ConfigOutOfRange, §7
// — out-of-range configuration is clamped at intake, never fatal).
func (c *PerceptionConfig) Clamp() {
	c.SightRange = maxF(0, c.SightRange)
	c.SightAngleDeg = clampF(c.SightAngleDeg, 0, 360)
	c.HearingRange = maxF(0, c.HearingRange)
	c.ProximityRange = maxF(0, c.ProximityRange)
	c.MemoryDuration = maxF(0, c.MemoryDuration)
}

// PerceptionEngine holds one agent's rolling memory of sighted subjects.
type PerceptionEngine struct {
	memory map[EntityHandle]MemoryRecord
}

// NewPerceptionEngine creates an empty perception engine.
func NewPerceptionEngine() *PerceptionEngine {
	return &PerceptionEngine{memory: make(map[EntityHandle]MemoryRecord)}
}

// Update computes this tick's perception events for observer, standing at
// observerPos and facing `facing` (radians). now is a monotonic global
// clock used for memory TTLs — never a per-state timer, since that
// resets on state change and would corrupt "currentTime - recorded_at"
// comparisons (the spec calls this out explicitly as a bug in the
// original C++ source to avoid repeating, §9).
func (p *PerceptionEngine) Update(
	observer EntityHandle,
	observerPos Vec2,
	facing float64,
	cfg PerceptionConfig,
	registry EntityRegistry,
	engine *CollisionEngine,
	now float64,
) []PerceptionEvent {
	maxRange := cfg.SightRange
	if cfg.HearingRange > maxRange {
		maxRange = cfg.HearingRange
	}
	if cfg.ProximityRange > maxRange {
		maxRange = cfg.ProximityRange
	}
	halfFOV := cfg.SightAngleDeg / 2 * (math.Pi / 180)

	var events []PerceptionEvent
	registry.AllActive(func(t EntitySnapshot) bool {
		if t.Handle == observer {
			return true
		}
		d := observerPos.Distance(t.Position)
		if d > maxRange {
			return true
		}

		if d <= cfg.SightRange {
			toTarget := t.Position.Sub(observerPos)
			facingVec := Vec2{math.Cos(facing), math.Sin(facing)}
			angle := angleBetween(facingVec, toTarget)
			inCone := angle <= halfFOV
			if inCone {
				hasLOS := true
				if cfg.RequiresLOS {
					hasLOS = !engine.SegmentIntersectsAny(observerPos, t.Position, observer, cfg.SightLayerMask)
				}
				if hasLOS {
					intensity := 1 - d/cfg.SightRange
					events = append(events, PerceptionEvent{
						Kind: PerceptionSight, Source: t.Handle, Position: t.Position,
						Intensity: intensity, Timestamp: now,
					})
					p.memory[t.Handle] = MemoryRecord{LastPosition: t.Position, RecordedAt: now}
				}
			}
		}

		if d <= cfg.HearingRange {
			events = append(events, PerceptionEvent{
				Kind: PerceptionHearing, Source: t.Handle, Position: t.Position,
				Intensity: 1 - d/cfg.HearingRange, Timestamp: now,
			})
		}

		if d <= cfg.ProximityRange {
			events = append(events, PerceptionEvent{
				Kind: PerceptionProximity, Source: t.Handle, Position: t.Position,
				Intensity: 1 - d/cfg.ProximityRange, Timestamp: now,
			})
		}
		return true
	})

	for subject, rec := range p.memory {
		if now-rec.RecordedAt <= cfg.MemoryDuration {
			events = append(events, PerceptionEvent{
				Kind: PerceptionMemory, Source: subject, Position: rec.LastPosition,
				Intensity: 0.5, Timestamp: now,
			})
		}
	}

	return events
}

// HasValidMemory reports whether a non-expired memory record for subject exists.
func (p *PerceptionEngine) HasValidMemory(subject EntityHandle, memoryDuration, now float64) (MemoryRecord, bool) {
	rec, ok := p.memory[subject]
	if !ok || now-rec.RecordedAt > memoryDuration {
		return MemoryRecord{}, false
	}
	return rec, true
}

// Forget discards a subject's memory record, used when an entity dies.
func (p *PerceptionEngine) Forget(subject EntityHandle) {
	delete(p.memory, subject)
}
