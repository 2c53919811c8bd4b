package core

import "testing"

func TestHashGridInsertQuery(t *testing.T) {
	g := NewHashGrid(32)
	g.Insert(ColliderRef{Handle: 1, Bounds: NewAABB(Vec2{0, 0}, Vec2{10, 10})})
	g.Insert(ColliderRef{Handle: 2, Bounds: NewAABB(Vec2{100, 100}, Vec2{10, 10})})

	results := g.QueryAABB(NewAABB(Vec2{0, 0}, Vec2{20, 20}))
	if len(results) != 1 || results[0].Handle != 1 {
		t.Fatalf("expected only handle 1, got %+v", results)
	}
}

func TestHashGridRemoveLeavesNoTrace(t *testing.T) {
	g := NewHashGrid(32)
	ref := ColliderRef{Handle: 1, Bounds: NewAABB(Vec2{0, 0}, Vec2{40, 40})}
	g.Insert(ref)
	g.Remove(1)

	fresh := NewHashGrid(32)
	got := g.QueryAABB(NewAABB(Vec2{0, 0}, Vec2{100, 100}))
	want := fresh.QueryAABB(NewAABB(Vec2{0, 0}, Vec2{100, 100}))
	if len(got) != len(want) {
		t.Fatalf("expected index after remove to match a fresh index, got %d vs %d", len(got), len(want))
	}
}

func TestHashGridQuerySegmentRasterizes(t *testing.T) {
	g := NewHashGrid(16)
	// Place a collider midway along the segment, in a cell that holds
	// neither endpoint, so it is found only if QuerySegment walks the
	// intermediate cells and not just the endpoint cells.
	g.Insert(ColliderRef{Handle: 7, Bounds: NewAABB(Vec2{40, 0}, Vec2{8, 8})})

	results := g.QuerySegment(Vec2{0, 0}, Vec2{80, 0})
	found := false
	for _, r := range results {
		if r.Handle == 7 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected segment query to rasterize through the collider's cell, got %+v", results)
	}
}

func TestHashGridDedupesMultiCellCollider(t *testing.T) {
	g := NewHashGrid(16)
	// A box spanning many cells must appear exactly once in query results.
	g.Insert(ColliderRef{Handle: 1, Bounds: NewAABB(Vec2{32, 32}, Vec2{64, 64})})
	results := g.QueryAABB(NewAABB(Vec2{32, 32}, Vec2{100, 100}))
	count := 0
	for _, r := range results {
		if r.Handle == 1 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one result for a multi-cell collider, got %d", count)
	}
}
