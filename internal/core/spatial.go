package core

// ColliderRef is a borrowed reference into the Collision Engine's
// collider map, valid only for the current tick. The spatial index never
// owns colliders — it is a rebuildable derived view (§5) and is cleared
// and repopulated whenever the collider set changes.
type ColliderRef struct {
	Handle EntityHandle
	Bounds AABB
}

// SpatialIndex is the broad-phase query surface shared by the hash grid
// and quadtree implementations (C1). Neither implementation guarantees
// any ordering of returned candidates, nor precise intersection — callers
// always re-test with exact geometry (narrow phase).
type SpatialIndex interface {
	Clear()
	Insert(ref ColliderRef)
	Remove(handle EntityHandle)
	QueryAABB(bounds AABB) []ColliderRef
	QuerySegment(p0, p1 Vec2) []ColliderRef
}

// dedupeByHandle removes duplicate ColliderRefs (by owning handle) while
// preserving the first occurrence's bounds. A rectangle overlapping K
// grid cells is enumerated K times on insert; queries must not return
// duplicates.
func dedupeByHandle(in []ColliderRef) []ColliderRef {
	if len(in) < 2 {
		return in
	}
	seen := make(map[EntityHandle]struct{}, len(in))
	out := in[:0]
	for _, r := range in {
		if _, ok := seen[r.Handle]; ok {
			continue
		}
		seen[r.Handle] = struct{}{}
		out = append(out, r)
	}
	return out
}
