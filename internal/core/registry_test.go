package core

// fakeRegistry is a minimal in-memory EntityRegistry for unit tests.
type fakeRegistry struct {
	entities map[EntityHandle]*EntitySnapshot
	damage   map[EntityHandle]float64
	nextID   uint64
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		entities: make(map[EntityHandle]*EntitySnapshot),
		damage:   make(map[EntityHandle]float64),
	}
}

func (r *fakeRegistry) add(pos, size Vec2, layer uint32, kind EntityKind) EntityHandle {
	r.nextID++
	h := EntityHandle(r.nextID)
	r.entities[h] = &EntitySnapshot{
		Handle: h, Position: pos, Size: size, Layer: layer, Active: true, Kind: kind,
	}
	return h
}

func (r *fakeRegistry) Get(h EntityHandle) (EntitySnapshot, bool) {
	e, ok := r.entities[h]
	if !ok {
		return EntitySnapshot{}, false
	}
	return *e, true
}

func (r *fakeRegistry) AllActive(yield func(EntitySnapshot) bool) {
	for _, e := range r.entities {
		if !e.Active {
			continue
		}
		if !yield(*e) {
			return
		}
	}
}

func (r *fakeRegistry) SetPosition(h EntityHandle, pos Vec2) {
	if e, ok := r.entities[h]; ok {
		e.Position = pos
	}
}

func (r *fakeRegistry) ApplyDamage(h EntityHandle, amount float64) {
	r.damage[h] += amount
}
