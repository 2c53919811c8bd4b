package core

import (
	"math"
	"time"
)

// RaycastHit is the outcome of a single ray query.
type RaycastHit struct {
	Valid    bool
	Entity   EntityHandle
	Point    Vec2
	Normal   Vec2
	Distance float64
}

// CollisionResult is one detailed overlap between two entities.
type CollisionResult struct {
	A, B         EntityHandle
	Intersection AABB
	Normal       Vec2
	IsTrigger    bool
}

// CollisionProfiler accumulates query counters when profiling is enabled.
// Fields are updated in place during a tick and must only be read between
// ticks (§5) — reading mid-tick may observe a partially updated snapshot.
type CollisionProfiler struct {
	Enabled          bool
	TotalQueries     uint64
	BroadPhaseTests  uint64
	NarrowPhaseTests uint64
	TimeSpent        time.Duration
}

func (p *CollisionProfiler) queryStart() time.Time {
	if p == nil || !p.Enabled {
		return time.Time{}
	}
	p.TotalQueries++
	return time.Now()
}

func (p *CollisionProfiler) queryEnd(start time.Time) {
	if p == nil || !p.Enabled || start.IsZero() {
		return
	}
	p.TimeSpent += time.Since(start)
}

// CollisionEngine owns every collider keyed by entity handle and a
// rebuildable broad-phase index over them. It answers overlap,
// first-hit, raycast, and swept-AABB queries filtered by a layer-pair
// matrix, and computes minimum translation vectors and normals.
type CollisionEngine struct {
	registry  EntityRegistry
	colliders map[EntityHandle]*Collider
	order     []EntityHandle // stable insertion order, for deterministic rebuilds
	index     SpatialIndex
	Matrix    *LayerMatrix
	Profiler  CollisionProfiler
}

// NewCollisionEngine wires a registry (for position/layer lookups) and a
// broad-phase index (hash grid or quadtree) into a new engine.
func NewCollisionEngine(registry EntityRegistry, index SpatialIndex) *CollisionEngine {
	return &CollisionEngine{
		registry:  registry,
		colliders: make(map[EntityHandle]*Collider),
		index:     index,
		Matrix:    NewLayerMatrix(),
	}
}

// AddOrUpdate upserts a collider built from named shapes. The layer is
// copied from the entity's current snapshot; if the entity is unknown
// the call is a no-op (UnknownEntity is swallowed per §7).
func (e *CollisionEngine) AddOrUpdate(handle EntityHandle, shapes []Shape, dynamic bool) bool {
	snap, ok := e.registry.Get(handle)
	if !ok {
		return false
	}
	c, exists := e.colliders[handle]
	if !exists {
		c = &Collider{Owner: handle}
		e.colliders[handle] = c
		e.order = append(e.order, handle)
	}
	c.Shapes = shapes
	c.Layer = snap.Layer
	c.Dynamic = dynamic
	e.rebuildIndex()
	return true
}

// AddOrUpdateRect upserts the legacy single-rectangle collider path.
func (e *CollisionEngine) AddOrUpdateRect(handle EntityHandle, size Vec2, dynamic bool) bool {
	snap, ok := e.registry.Get(handle)
	if !ok {
		return false
	}
	c, exists := e.colliders[handle]
	if !exists {
		c = &Collider{Owner: handle}
		e.colliders[handle] = c
		e.order = append(e.order, handle)
	}
	c.Shapes = nil
	c.legacySize = size
	c.Layer = snap.Layer
	c.Dynamic = dynamic
	e.rebuildIndex()
	return true
}

// Remove deletes handle's collider, if any, and rebuilds the index.
func (e *CollisionEngine) Remove(handle EntityHandle) {
	if _, ok := e.colliders[handle]; !ok {
		return
	}
	delete(e.colliders, handle)
	for i, h := range e.order {
		if h == handle {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.rebuildIndex()
}

// rebuildIndex clears and repopulates the broad-phase index from the
// current collider set. Called on every structural mutation (add/update/
// remove) and again at the start of every query, since a handle's bounds
// also change whenever the registry's position for it changes — the only
// way to honor "every spatial query within a tick observes the latest
// state" (§5, tick ordering guarantee 1) without the index holding a
// private copy of positions that could drift from the registry's.
func (e *CollisionEngine) rebuildIndex() {
	e.index.Clear()
	for _, h := range e.order {
		c := e.colliders[h]
		snap, ok := e.registry.Get(h)
		if !ok {
			continue
		}
		e.index.Insert(ColliderRef{Handle: h, Bounds: c.Bounds(snap.Position)})
	}
}

func (e *CollisionEngine) boundsOf(handle EntityHandle) (AABB, bool) {
	c, ok := e.colliders[handle]
	if !ok {
		return AABB{}, false
	}
	snap, ok := e.registry.Get(handle)
	if !ok {
		return AABB{}, false
	}
	return c.Bounds(snap.Position), true
}

// Check returns every other entity currently colliding with handle,
// filtered by the layer matrix.
func (e *CollisionEngine) Check(handle EntityHandle) []EntityHandle {
	e.rebuildIndex()
	bounds, ok := e.boundsOf(handle)
	if !ok {
		return nil
	}
	c := e.colliders[handle]
	start := e.Profiler.queryStart()
	defer e.Profiler.queryEnd(start)

	candidates := e.index.QueryAABB(bounds)
	e.Profiler.BroadPhaseTests += uint64(len(candidates))

	var out []EntityHandle
	for _, cand := range candidates {
		if cand.Handle == handle {
			continue
		}
		other := e.colliders[cand.Handle]
		if other == nil || !e.Matrix.Get(c.Layer, other.Layer) {
			continue
		}
		e.Profiler.NarrowPhaseTests++
		if bounds.Intersects(cand.Bounds) {
			out = append(out, cand.Handle)
		}
	}
	return out
}

// CheckDetailed is like Check but also returns the intersection AABB,
// a center-to-center normal, and whether either side's shape is a trigger.
func (e *CollisionEngine) CheckDetailed(handle EntityHandle) []CollisionResult {
	e.rebuildIndex()
	bounds, ok := e.boundsOf(handle)
	if !ok {
		return nil
	}
	c := e.colliders[handle]
	start := e.Profiler.queryStart()
	defer e.Profiler.queryEnd(start)

	candidates := e.index.QueryAABB(bounds)
	e.Profiler.BroadPhaseTests += uint64(len(candidates))

	var out []CollisionResult
	for _, cand := range candidates {
		if cand.Handle == handle {
			continue
		}
		other := e.colliders[cand.Handle]
		if other == nil || !e.Matrix.Get(c.Layer, other.Layer) {
			continue
		}
		e.Profiler.NarrowPhaseTests++
		if !bounds.Intersects(cand.Bounds) {
			continue
		}
		normal := bounds.Center().Sub(cand.Bounds.Center()).Normalize()
		out = append(out, CollisionResult{
			A:            handle,
			B:            cand.Handle,
			Intersection: bounds.Intersection(cand.Bounds),
			Normal:       normal,
			IsTrigger:    c.AnyTrigger() || other.AnyTrigger(),
		})
	}
	return out
}

// FirstForBounds returns the first broad-phase candidate (not exclude,
// passing the allowed-layer mask, and truly intersecting bounds).
func (e *CollisionEngine) FirstForBounds(bounds AABB, exclude EntityHandle, allowedMask uint32) (EntityHandle, bool) {
	e.rebuildIndex()
	start := e.Profiler.queryStart()
	defer e.Profiler.queryEnd(start)

	candidates := e.index.QueryAABB(bounds)
	e.Profiler.BroadPhaseTests += uint64(len(candidates))
	for _, cand := range candidates {
		if cand.Handle == exclude {
			continue
		}
		other := e.colliders[cand.Handle]
		if other == nil || other.Layer&allowedMask == 0 {
			continue
		}
		e.Profiler.NarrowPhaseTests++
		if bounds.Intersects(cand.Bounds) {
			return cand.Handle, true
		}
	}
	return NoEntity, false
}

// Raycast returns the nearest hit along origin+dir*[0,maxDist], excluding
// exclude and filtered to allowedMask.
func (e *CollisionEngine) Raycast(origin, dir Vec2, maxDist float64, exclude EntityHandle, allowedMask uint32) RaycastHit {
	e.rebuildIndex()
	start := e.Profiler.queryStart()
	defer e.Profiler.queryEnd(start)

	dirN := dir.Normalize()
	end := origin.Add(dirN.Scale(maxDist))
	candidates := e.index.QuerySegment(origin, end)
	e.Profiler.BroadPhaseTests += uint64(len(candidates))

	best := RaycastHit{}
	bestT := math.Inf(1)
	for _, cand := range candidates {
		if cand.Handle == exclude {
			continue
		}
		other := e.colliders[cand.Handle]
		if other == nil || other.Layer&allowedMask == 0 {
			continue
		}
		e.Profiler.NarrowPhaseTests++
		t, hit := raySlabT(origin, end, cand.Bounds)
		if !hit || t > bestT {
			continue
		}
		point := Vec2{origin.X + (end.X-origin.X)*t, origin.Y + (end.Y-origin.Y)*t}
		bestT = t
		best = RaycastHit{
			Valid:    true,
			Entity:   cand.Handle,
			Point:    point,
			Normal:   aabbFaceNormal(point, cand.Bounds),
			Distance: t * maxDist,
		}
	}
	return best
}

// SegmentIntersectsAny is a convenience wrapper around Raycast.
func (e *CollisionEngine) SegmentIntersectsAny(p0, p1 Vec2, exclude EntityHandle, allowedMask uint32) bool {
	dir := p1.Sub(p0)
	dist := dir.Length()
	if dist < 1e-9 {
		return false
	}
	return e.Raycast(p0, dir, dist, exclude, allowedMask).Valid
}

// Sweep enlarges bounds along velocity*dt to form a swept AABB, then runs
// the usual filter + narrow phase over the candidates it touches.
func (e *CollisionEngine) Sweep(bounds AABB, velocity Vec2, dt float64, exclude EntityHandle, allowedMask uint32) []CollisionResult {
	e.rebuildIndex()
	disp := velocity.Scale(dt)
	swept := bounds
	if disp.X < 0 {
		swept.Min.X += disp.X
	} else {
		swept.Max.X += disp.X
	}
	if disp.Y < 0 {
		swept.Min.Y += disp.Y
	} else {
		swept.Max.Y += disp.Y
	}

	start := e.Profiler.queryStart()
	defer e.Profiler.queryEnd(start)

	candidates := e.index.QueryAABB(swept)
	e.Profiler.BroadPhaseTests += uint64(len(candidates))

	var out []CollisionResult
	for _, cand := range candidates {
		if cand.Handle == exclude {
			continue
		}
		other := e.colliders[cand.Handle]
		if other == nil || other.Layer&allowedMask == 0 {
			continue
		}
		e.Profiler.NarrowPhaseTests++
		if !swept.Intersects(cand.Bounds) {
			continue
		}
		normal := swept.Center().Sub(cand.Bounds.Center()).Normalize()
		out = append(out, CollisionResult{
			A:            exclude,
			B:            cand.Handle,
			Intersection: swept.Intersection(cand.Bounds),
			Normal:       normal,
			IsTrigger:    other.AnyTrigger(),
		})
	}
	return out
}

// SetLayerCollision configures the layer matrix symmetrically.
func (e *CollisionEngine) SetLayerCollision(a, b uint32, collides bool) {
	e.Matrix.Set(a, b, collides)
}
