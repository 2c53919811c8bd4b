package core

import "math"

// HashGrid is a uniform-cell broad-phase index. Cell size is configured
// at construction; a collider whose AABB overlaps K cells is enumerated
// in K buckets on insert, so QueryAABB/QuerySegment dedupe their results
// by collider identity before returning (mirrors the cache-friendly,
// preallocated-bucket layout of a classic spatial hash: see
// internal/game/spatial.SpatialGrid in the retrieved corpus, generalized
// here from fixed-size uint32 slices to a sparse map since the AI core's
// world is not bounded in advance).
type HashGrid struct {
	cellSize float64
	cells    map[[2]int][]ColliderRef
}

// NewHashGrid creates a hash grid with the given cell size in world units.
func NewHashGrid(cellSize float64) *HashGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	return &HashGrid{cellSize: cellSize, cells: make(map[[2]int][]ColliderRef)}
}

func (g *HashGrid) cellOf(p Vec2) [2]int {
	return [2]int{int(math.Floor(p.X / g.cellSize)), int(math.Floor(p.Y / g.cellSize))}
}

// Clear empties every bucket. The map is kept (not reallocated) so
// repeated rebuild/insert cycles within a long run don't churn the heap.
func (g *HashGrid) Clear() {
	for k := range g.cells {
		delete(g.cells, k)
	}
}

// Insert enumerates every cell the collider's AABB overlaps and appends
// the reference to each bucket.
func (g *HashGrid) Insert(ref ColliderRef) {
	minC := g.cellOf(ref.Bounds.Min)
	maxC := g.cellOf(ref.Bounds.Max)
	for cy := minC[1]; cy <= maxC[1]; cy++ {
		for cx := minC[0]; cx <= maxC[0]; cx++ {
			key := [2]int{cx, cy}
			g.cells[key] = append(g.cells[key], ref)
		}
	}
}

// Remove drops every occurrence of handle from every bucket it appears in.
// The hash grid has no reverse index from handle to cells, so a full
// rebuild (Clear + re-Insert of the surviving set) is the engine's normal
// way to apply a removal; Remove itself is a defensive scan for callers
// that mutate the index directly without going through the engine.
func (g *HashGrid) Remove(handle EntityHandle) {
	for key, bucket := range g.cells {
		filtered := bucket[:0]
		for _, r := range bucket {
			if r.Handle != handle {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			delete(g.cells, key)
		} else {
			g.cells[key] = filtered
		}
	}
}

// QueryAABB returns every distinct collider whose cell range overlaps bounds.
func (g *HashGrid) QueryAABB(bounds AABB) []ColliderRef {
	minC := g.cellOf(bounds.Min)
	maxC := g.cellOf(bounds.Max)
	var out []ColliderRef
	for cy := minC[1]; cy <= maxC[1]; cy++ {
		for cx := minC[0]; cx <= maxC[0]; cx++ {
			out = append(out, g.cells[[2]int{cx, cy}]...)
		}
	}
	return dedupeByHandle(out)
}

// QuerySegment rasterizes the cells traversed by the line p0->p1 using a
// DDA walk (true line rasterization, not a bounding-box approximation —
// the source's hash grid used the latter and is called out as a bug to
// fix in the spec's design notes) and unions their buckets.
func (g *HashGrid) QuerySegment(p0, p1 Vec2) []ColliderRef {
	var out []ColliderRef
	for _, c := range g.rasterize(p0, p1) {
		out = append(out, g.cells[c]...)
	}
	return dedupeByHandle(out)
}

// rasterize walks the segment p0->p1 via DDA, sampling one point per cell
// step along the major axis and collecting the cell of each sample. A cell
// that the segment only clips at a corner on the minor axis can be skipped.
func (g *HashGrid) rasterize(p0, p1 Vec2) [][2]int {
	c0 := g.cellOf(p0)
	c1 := g.cellOf(p1)

	dx := c1[0] - c0[0]
	dy := c1[1] - c0[1]
	steps := absInt(dx)
	if absInt(dy) > steps {
		steps = absInt(dy)
	}
	if steps == 0 {
		return [][2]int{c0}
	}

	cells := make([][2]int, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		wx := p0.X + (p1.X-p0.X)*t
		wy := p0.Y + (p1.Y-p0.Y)*t
		cells = append(cells, g.cellOf(Vec2{wx, wy}))
	}
	return cells
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
