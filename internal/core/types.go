// Package core implements the AI + Collision core of Abyssal Station:
// layered spatial indexing, broad/narrow-phase collision, perception,
// A* pathfinding, a per-agent finite state machine, and the coordination
// manager that ticks every agent once per frame.
package core

import "math"

// Vec2 is a 2D world-space point or displacement, in pixels.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2   { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2   { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec2) LengthSq() float64    { return v.X*v.X + v.Y*v.Y }

// Normalize returns a unit vector in the same direction, or the zero
// vector if v is (near) zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Length()
}

// IVec2 is an integer grid coordinate.
type IVec2 struct {
	X, Y int
}

// AABB is an axis-aligned bounding box expressed as min/max corners.
type AABB struct {
	Min, Max Vec2
}

// NewAABB builds an AABB from a center position and a full size.
func NewAABB(center, size Vec2) AABB {
	half := size.Scale(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func (b AABB) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

func (b AABB) Size() Vec2 {
	return Vec2{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y}
}

// Translate returns the AABB moved by delta.
func (b AABB) Translate(delta Vec2) AABB {
	return AABB{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

// Expand grows the box by half-extents `by` in all directions (may be negative to shrink).
func (b AABB) Expand(by Vec2) AABB {
	return AABB{Min: Vec2{b.Min.X - by.X, b.Min.Y - by.Y}, Max: Vec2{b.Max.X + by.X, b.Max.Y + by.Y}}
}

// Intersects reports whether two AABBs overlap (touching edges do not count).
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y
}

// Overlap returns the penetration extents along X and Y. Zero or negative
// on an axis means no overlap on that axis.
func (b AABB) Overlap(o AABB) (ox, oy float64) {
	ox = math.Min(b.Max.X, o.Max.X) - math.Max(b.Min.X, o.Min.X)
	oy = math.Min(b.Max.Y, o.Max.Y) - math.Max(b.Min.Y, o.Min.Y)
	return
}

// Intersection returns the overlapping region of two AABBs. Callers must
// check Intersects first; on non-overlap this returns a degenerate box.
func (b AABB) Intersection(o AABB) AABB {
	return AABB{
		Min: Vec2{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y)},
	}
}

// Contains reports whether p lies inside the box (inclusive).
func (b AABB) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// clamp01 constrains v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
