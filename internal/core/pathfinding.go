package core

import (
	"container/heap"
	"math"
)

// PathfindingConfig holds one agent's pathfinding tunables (§3 AgentConfig.pathfinding).
type PathfindingConfig struct {
	GridSize          float64
	MaxIterations     int
	Diagonal          bool
	DiagCost          float64
	MaxPathLength     int
	ObstacleLayerMask uint32
}

// Clamp constrains every field to its valid domain (ConfigOutOfRange, §7).
func (c *PathfindingConfig) Clamp() {
	if c.GridSize <= 0 {
		c.GridSize = 32
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 2000
	}
	if c.DiagCost <= 0 {
		c.DiagCost = math.Sqrt2
	}
	if c.MaxPathLength <= 0 {
		c.MaxPathLength = 256
	}
}

// PathResult is the outcome of one find_path call (§3). A success with
// empty Waypoints never occurs; Success ⇒ len(Waypoints) ≥ 2.
type PathResult struct {
	Waypoints  []Vec2
	Success    bool
	Cost       float64
	Iterations int
}

// WorldToGrid maps a world point to its containing grid cell.
func WorldToGrid(p Vec2, gridSize float64) IVec2 {
	return IVec2{X: int(math.Floor(p.X / gridSize)), Y: int(math.Floor(p.Y / gridSize))}
}

// GridToWorld maps a grid cell to the world position of its center.
func GridToWorld(c IVec2, gridSize float64) Vec2 {
	return Vec2{X: (float64(c.X) + 0.5) * gridSize, Y: (float64(c.Y) + 0.5) * gridSize}
}

// pathNode is one A* working entry, stored by value in a flat arena; Parent
// is an index into that arena rather than a pointer (§4.5 memory discipline).
type pathNode struct {
	cell   IVec2
	g, h   float64
	parent int // -1 for the start node
	heapIx int
}

func (n *pathNode) f() float64 { return n.g + n.h }

// nodeOpenList is a container/heap.Interface over arena indices, matching
// the teacher's openList (internal/game/navmesh.go) generalized to index
// into an external arena instead of holding *pathNode directly.
type nodeOpenList struct {
	arena   *[]pathNode
	indices []int
}

func (ol *nodeOpenList) Len() int { return len(ol.indices) }
func (ol *nodeOpenList) Less(i, j int) bool {
	a, b := (*ol.arena)[ol.indices[i]], (*ol.arena)[ol.indices[j]]
	return a.f() < b.f()
}
func (ol *nodeOpenList) Swap(i, j int) {
	ol.indices[i], ol.indices[j] = ol.indices[j], ol.indices[i]
	(*ol.arena)[ol.indices[i]].heapIx = i
	(*ol.arena)[ol.indices[j]].heapIx = j
}
func (ol *nodeOpenList) Push(x interface{}) {
	idx := x.(int)
	ol.indices = append(ol.indices, idx)
	(*ol.arena)[idx].heapIx = len(ol.indices) - 1
}
func (ol *nodeOpenList) Pop() interface{} {
	old := ol.indices
	n := len(old)
	idx := old[n-1]
	ol.indices = old[:n-1]
	return idx
}

var fourDirs = [4]IVec2{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
var diagDirs = [4]IVec2{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}

// PathfindingEngine runs grid A* over an infinite integer lattice backed by
// the collision engine's obstacle queries (C5, §4.5).
type PathfindingEngine struct {
	engine *CollisionEngine
}

// NewPathfindingEngine wires a pathfinder onto an existing collision engine.
func NewPathfindingEngine(engine *CollisionEngine) *PathfindingEngine {
	return &PathfindingEngine{engine: engine}
}

// isWalkable reports whether a grid_size-sided cell centered on cell's world
// position is free of any obstacle-layer collider, excluding mover.
func (pf *PathfindingEngine) isWalkable(cell IVec2, cfg PathfindingConfig, mover EntityHandle) bool {
	center := GridToWorld(cell, cfg.GridSize)
	half := cfg.GridSize / 2
	bounds := AABB{Min: Vec2{center.X - half, center.Y - half}, Max: Vec2{center.X + half, center.Y + half}}
	_, blocked := pf.engine.FirstForBounds(bounds, mover, cfg.ObstacleLayerMask)
	return !blocked
}

func heuristic(a, b IVec2, cfg PathfindingConfig) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	if !cfg.Diagonal {
		return dx + dy
	}
	if dx < dy {
		dx, dy = dy, dx
	}
	return dx + (cfg.DiagCost-1)*dy
}

// FindPath computes a path from start to goal filtered against obstacles on
// cfg.ObstacleLayerMask, excluding mover from its own obstacle test.
func (pf *PathfindingEngine) FindPath(start, goal Vec2, cfg PathfindingConfig, mover EntityHandle) PathResult {
	cfg.Clamp()

	if !segmentBlocked(pf.engine, start, goal, cfg.ObstacleLayerMask, mover) {
		return PathResult{
			Waypoints:  []Vec2{start, goal},
			Success:    true,
			Cost:       start.Distance(goal),
			Iterations: 1,
		}
	}

	startCell := WorldToGrid(start, cfg.GridSize)
	goalCell := WorldToGrid(goal, cfg.GridSize)

	arena := make([]pathNode, 0, 256)
	arena = append(arena, pathNode{cell: startCell, g: 0, h: heuristic(startCell, goalCell, cfg), parent: -1})

	open := &nodeOpenList{arena: &arena, indices: []int{0}}
	heap.Init(open)

	closed := make(map[IVec2]bool)
	bestIdx := map[IVec2]int{startCell: 0}

	iterations := 0
	goalIdx := -1

	for open.Len() > 0 {
		iterations++
		if iterations > cfg.MaxIterations {
			return PathResult{Success: false, Iterations: iterations}
		}

		curIdx := heap.Pop(open).(int)
		cur := arena[curIdx]
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		if cur.cell == goalCell {
			goalIdx = curIdx
			break
		}

		neighbors := fourDirs[:]
		var all []IVec2
		all = append(all, neighbors...)
		if cfg.Diagonal {
			all = append(all, diagDirs[:]...)
		}

		for _, d := range all {
			next := IVec2{X: cur.cell.X + d.X, Y: cur.cell.Y + d.Y}
			if closed[next] {
				continue
			}
			if !pf.isWalkable(next, cfg, mover) {
				continue
			}
			step := 1.0
			if d.X != 0 && d.Y != 0 {
				step = cfg.DiagCost
				if !pf.isWalkable(IVec2{X: cur.cell.X + d.X, Y: cur.cell.Y}, cfg, mover) ||
					!pf.isWalkable(IVec2{X: cur.cell.X, Y: cur.cell.Y + d.Y}, cfg, mover) {
					continue
				}
			}
			g := cur.g + step
			if existingIdx, ok := bestIdx[next]; ok && arena[existingIdx].g <= g {
				continue
			}
			idx := len(arena)
			arena = append(arena, pathNode{
				cell: next, g: g, h: heuristic(next, goalCell, cfg), parent: curIdx,
			})
			open.arena = &arena
			bestIdx[next] = idx
			heap.Push(open, idx)
		}
	}

	if goalIdx < 0 {
		return PathResult{Success: false, Iterations: iterations}
	}

	var cells []IVec2
	for idx := goalIdx; idx >= 0; idx = arena[idx].parent {
		cells = append(cells, arena[idx].cell)
		if arena[idx].parent < 0 {
			break
		}
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	waypoints := make([]Vec2, len(cells))
	for i, c := range cells {
		waypoints[i] = GridToWorld(c, cfg.GridSize)
	}
	if len(waypoints) == 1 {
		waypoints = append(waypoints, goal)
	}
	waypoints[0] = start
	waypoints[len(waypoints)-1] = goal

	smoothed := smoothPath(pf.engine, waypoints, cfg.ObstacleLayerMask, mover)
	if len(smoothed) > cfg.MaxPathLength {
		smoothed = smoothed[:cfg.MaxPathLength]
	}

	return PathResult{
		Waypoints:  smoothed,
		Success:    true,
		Cost:       arena[goalIdx].g,
		Iterations: iterations,
	}
}

// smoothPath removes intermediate waypoints reachable by a clear straight
// segment, per §4.5 step 3: from i=0, find the farthest obstacle-free j>i.
func smoothPath(engine *CollisionEngine, path []Vec2, mask uint32, mover EntityHandle) []Vec2 {
	if len(path) <= 2 {
		return path
	}
	out := []Vec2{path[0]}
	i := 0
	for i < len(path)-1 {
		j := len(path) - 1
		for j > i+1 {
			if !segmentBlocked(engine, path[i], path[j], mask, mover) {
				break
			}
			j--
		}
		out = append(out, path[j])
		i = j
	}
	return out
}

func segmentBlocked(engine *CollisionEngine, a, b Vec2, mask uint32, exclude EntityHandle) bool {
	return engine.SegmentIntersectsAny(a, b, exclude, mask)
}
