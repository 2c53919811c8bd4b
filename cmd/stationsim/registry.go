package main

import (
	"github.com/google/uuid"

	"github.com/abyssal-station/ai-collision-core/internal/core"
)

// demoEntity is the harness's concrete backing store for one entity. The
// core only ever sees it through core.EntitySnapshot — Label exists purely
// for the harness's own logging and is never read by internal/core.
type demoEntity struct {
	snapshot core.EntitySnapshot
	health   float64
	label    string
}

// demoRegistry is the host-supplied core.EntityRegistry implementation for
// the standalone simulator. A production host would back this with its own
// ECS or scene graph; this one is a flat map, matching the teacher's
// test_harness.go in spirit (a minimal in-memory stand-in, not a real game
// world).
type demoRegistry struct {
	entities map[core.EntityHandle]*demoEntity
	nextID   uint64

	// onDeath, when set, is invoked the instant an entity's health is
	// depleted by ApplyDamage. buildSimulation wires this to
	// CoordinationManager.OnDied so dying agents are unbound the same
	// tick they die.
	onDeath func(core.EntityHandle)
}

func newDemoRegistry() *demoRegistry {
	return &demoRegistry{entities: make(map[core.EntityHandle]*demoEntity)}
}

// spawn creates a new entity and returns its handle. The handle itself is
// a small sequential integer (the core treats it as an opaque comparable
// value, per internal/core/entity.go); a random UUID prefix forms a
// human-readable label stored on the entity record. No log line or command
// prints the label.
func (r *demoRegistry) spawn(pos, size core.Vec2, layer uint32, kind core.EntityKind, health float64) core.EntityHandle {
	r.nextID++
	h := core.EntityHandle(r.nextID)
	r.entities[h] = &demoEntity{
		snapshot: core.EntitySnapshot{
			Handle: h, Position: pos, Size: size, Layer: layer, Active: true, Kind: kind,
		},
		health: health,
		label:  kind.String() + "-" + uuid.NewString()[:8],
	}
	return h
}

func (r *demoRegistry) Get(h core.EntityHandle) (core.EntitySnapshot, bool) {
	e, ok := r.entities[h]
	if !ok {
		return core.EntitySnapshot{}, false
	}
	return e.snapshot, true
}

func (r *demoRegistry) AllActive(yield func(core.EntitySnapshot) bool) {
	for _, e := range r.entities {
		if !e.snapshot.Active {
			continue
		}
		if !yield(e.snapshot) {
			return
		}
	}
}

func (r *demoRegistry) SetPosition(h core.EntityHandle, pos core.Vec2) {
	if e, ok := r.entities[h]; ok {
		e.snapshot.Position = pos
	}
}

// ApplyDamage deactivates the entity once health reaches zero and reports
// the kill back through onDeath, mirroring original_source's AIManager
// death notification without the core ever needing a callback of its own.
func (r *demoRegistry) ApplyDamage(h core.EntityHandle, amount float64) {
	e, ok := r.entities[h]
	if !ok || !e.snapshot.Active {
		return
	}
	e.health -= amount
	if e.health <= 0 {
		e.snapshot.Active = false
		if r.onDeath != nil {
			r.onDeath(h)
		}
	}
}
