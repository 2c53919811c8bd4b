package core

import "testing"

func region() AABB {
	return NewAABB(Vec2{0, 0}, Vec2{1024, 1024})
}

func TestQuadtreeInsertQuery(t *testing.T) {
	// One object per node, so the second insert splits the root and the two
	// objects land in opposite quadrants.
	q := NewQuadtree(region(), 6, 1)
	q.Insert(ColliderRef{Handle: 1, Bounds: NewAABB(Vec2{-400, -400}, Vec2{10, 10})})
	q.Insert(ColliderRef{Handle: 2, Bounds: NewAABB(Vec2{400, 400}, Vec2{10, 10})})

	results := q.QueryAABB(NewAABB(Vec2{-400, -400}, Vec2{20, 20}))
	if len(results) != 1 || results[0].Handle != 1 {
		t.Fatalf("expected only handle 1, got %+v", results)
	}
}

func TestQuadtreeStraddlingObjectStaysAtParent(t *testing.T) {
	q := NewQuadtree(region(), 6, 1)
	// A box straddling the origin cannot be assigned to any one quadrant.
	q.Insert(ColliderRef{Handle: 1, Bounds: NewAABB(Vec2{0, 0}, Vec2{100, 100})})
	q.Insert(ColliderRef{Handle: 2, Bounds: NewAABB(Vec2{400, 400}, Vec2{10, 10})})
	q.Insert(ColliderRef{Handle: 3, Bounds: NewAABB(Vec2{-400, -400}, Vec2{10, 10})})

	if n := q.handleIndex[1]; n != q.root {
		t.Fatalf("expected the straddling object to remain at the root node")
	}
}

func TestQuadtreeRemoveLeavesNoTrace(t *testing.T) {
	q := NewQuadtree(region(), 6, 2)
	for i := 0; i < 10; i++ {
		q.Insert(ColliderRef{Handle: EntityHandle(i + 1), Bounds: NewAABB(Vec2{float64(i * 20), 0}, Vec2{5, 5})})
	}
	for i := 0; i < 10; i++ {
		q.Remove(EntityHandle(i + 1))
	}
	results := q.QueryAABB(region())
	if len(results) != 0 {
		t.Fatalf("expected no results after removing everything, got %+v", results)
	}
}

func TestQuadtreeStats(t *testing.T) {
	q := NewQuadtree(region(), 4, 1)
	for i := 0; i < 20; i++ {
		q.Insert(ColliderRef{Handle: EntityHandle(i + 1), Bounds: NewAABB(Vec2{float64(i * 10), float64(i * 10)}, Vec2{2, 2})})
	}
	stats := q.Stats()
	if stats.Objects != 20 {
		t.Fatalf("expected 20 tracked objects, got %d", stats.Objects)
	}
	if stats.TotalNodes < 1 {
		t.Fatalf("expected at least the root node")
	}
}
