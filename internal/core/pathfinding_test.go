package core

import "testing"

func TestFindPathShortCircuitsWithNoObstacles(t *testing.T) {
	reg, eng := newTestEngine()
	_ = reg
	pf := NewPathfindingEngine(eng)
	cfg := PathfindingConfig{GridSize: 16, MaxIterations: 100}

	result := pf.FindPath(Vec2{0, 0}, Vec2{100, 100}, cfg, NoEntity)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.Waypoints) != 2 {
		t.Fatalf("expected exactly the start and goal waypoints, got %v", result.Waypoints)
	}
	if result.Iterations != 1 {
		t.Fatalf("expected a single iteration for the short-circuit case, got %d", result.Iterations)
	}
}

func TestFindPathRoutesAroundObstacle(t *testing.T) {
	reg, eng := newTestEngine()
	wall := reg.add(Vec2{50, 0}, Vec2{16, 200}, LayerWall, KindWall)
	eng.AddOrUpdateRect(wall, Vec2{16, 200}, false)

	pf := NewPathfindingEngine(eng)
	cfg := PathfindingConfig{GridSize: 16, MaxIterations: 5000, Diagonal: true, DiagCost: 1.41421356, ObstacleLayerMask: ^uint32(0)}

	result := pf.FindPath(Vec2{0, 0}, Vec2{100, 0}, cfg, NoEntity)
	if !result.Success {
		t.Fatalf("expected a path to be found around the wall, got %+v", result)
	}
	if len(result.Waypoints) < 2 {
		t.Fatalf("a success result must have at least 2 waypoints, got %v", result.Waypoints)
	}
}

func TestFindPathFailsWhenSurrounded(t *testing.T) {
	reg, eng := newTestEngine()
	// Ring the goal with walls and put a wall on the goal itself, so the
	// goal's cell is never walkable and the search can never reach it.
	for _, pos := range []Vec2{{96, 0}, {-96, 0}, {0, 96}, {0, -96}, {96, 96}, {-96, 96}, {96, -96}, {-96, -96}} {
		h := reg.add(pos, Vec2{32, 32}, LayerWall, KindWall)
		eng.AddOrUpdateRect(h, Vec2{32, 32}, false)
	}
	surrounded := reg.add(Vec2{0, 0}, Vec2{32, 32}, LayerWall, KindWall)
	eng.AddOrUpdateRect(surrounded, Vec2{32, 32}, false)

	pf := NewPathfindingEngine(eng)
	cfg := PathfindingConfig{GridSize: 32, MaxIterations: 500, ObstacleLayerMask: ^uint32(0)}
	result := pf.FindPath(Vec2{500, 500}, Vec2{0, 0}, cfg, NoEntity)
	if result.Success {
		t.Fatalf("expected no path to a fully enclosed goal, got %+v", result)
	}
}
