package core

import "math"

// raySlabT returns the segment parameter t in [0,1] where the line from
// p0 to p1 first enters box, and whether any hit exists. Generalized from
// the teacher's rayAABBHitT (internal/game/los.go) from separate x/y
// float64 pairs to Vec2/AABB.
func raySlabT(p0, p1 Vec2, box AABB) (float64, bool) {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y

	tMin, tMax := 0.0, 1.0

	if math.Abs(dx) < 1e-12 {
		if p0.X < box.Min.X || p0.X > box.Max.X {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (box.Min.X - p0.X) * invD
		t2 := (box.Max.X - p0.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if math.Abs(dy) < 1e-12 {
		if p0.Y < box.Min.Y || p0.Y > box.Max.Y {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (box.Min.Y - p0.Y) * invD
		t2 := (box.Max.Y - p0.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}

// segmentIntersectsAABB reports whether the segment p0->p1 crosses box.
func segmentIntersectsAABB(p0, p1 Vec2, box AABB) bool {
	_, hit := raySlabT(p0, p1, box)
	return hit
}

// aabbFaceNormal returns the axis-aligned normal of the face of box that
// point p sits on, chosen by the larger offset from the box's center —
// the rule used for raycast hit normals (§4.2). The movement helper uses
// collisionNormal's smallest-overlap rule instead (§4.8).
func aabbFaceNormal(p Vec2, box AABB) Vec2 {
	c := box.Center()
	halfX := (box.Max.X - box.Min.X) / 2
	halfY := (box.Max.Y - box.Min.Y) / 2
	dx := p.X - c.X
	dy := p.Y - c.Y

	// Normalize offsets by half-extent so we compare penetration ratios,
	// not raw distances, on non-square boxes.
	var rx, ry float64
	if halfX > 1e-9 {
		rx = dx / halfX
	}
	if halfY > 1e-9 {
		ry = dy / halfY
	}

	if math.Abs(rx) >= math.Abs(ry) {
		if rx >= 0 {
			return Vec2{1, 0}
		}
		return Vec2{-1, 0}
	}
	if ry >= 0 {
		return Vec2{0, 1}
	}
	return Vec2{0, -1}
}

// angleBetween returns the unsigned angle in radians between vectors a
// and b. If either vector is (near) zero length the angle is defined as
// zero — the spec treats that case as "in cone" (§4.4).
func angleBetween(a, b Vec2) float64 {
	la, lb := a.Length(), b.Length()
	if la < 1e-4 || lb < 1e-4 {
		return 0
	}
	cos := clampF(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(cos)
}
