package core

import "testing"

func TestAABBIntersects(t *testing.T) {
	a := NewAABB(Vec2{0, 0}, Vec2{10, 10})
	b := NewAABB(Vec2{5, 5}, Vec2{10, 10})
	c := NewAABB(Vec2{100, 100}, Vec2{10, 10})

	if !a.Intersects(b) {
		t.Fatal("expected overlapping boxes to intersect")
	}
	if a.Intersects(c) {
		t.Fatal("expected distant boxes not to intersect")
	}
}

func TestAABBOverlap(t *testing.T) {
	a := NewAABB(Vec2{0, 0}, Vec2{10, 10})
	b := NewAABB(Vec2{5, 0}, Vec2{10, 10})
	ox, oy := a.Overlap(b)
	if ox <= 0 {
		t.Fatalf("expected positive x overlap, got %v", ox)
	}
	if oy != 10 {
		t.Fatalf("expected full y overlap of 10, got %v", oy)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}.Normalize()
	if l := v.Length(); l < 0.999 || l > 1.001 {
		t.Fatalf("expected unit length, got %v", l)
	}
	if z := (Vec2{}).Normalize(); z != (Vec2{}) {
		t.Fatalf("expected zero vector to normalize to zero, got %v", z)
	}
}

func TestWorldGridRoundTrip(t *testing.T) {
	const gridSize = 16.0
	p := Vec2{37, -5}
	cell := WorldToGrid(p, gridSize)
	center := GridToWorld(cell, gridSize)
	if WorldToGrid(center, gridSize) != cell {
		t.Fatalf("world_to_grid(grid_to_world(cell)) must be idempotent, got %v", WorldToGrid(center, gridSize))
	}
}
