package core

import "testing"

func TestPerceptionBasicSight(t *testing.T) {
	reg, eng := newTestEngine()
	observer := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	player := reg.add(Vec2{50, 0}, Vec2{10, 10}, LayerPlayer, KindPlayer)

	cfg := PerceptionConfig{SightRange: 200, SightAngleDeg: 90}
	p := NewPerceptionEngine()
	events := p.Update(observer, Vec2{0, 0}, 0, cfg, reg, eng, 1.0)

	found := false
	for _, e := range events {
		if e.Kind == PerceptionSight && e.Source == player {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a sight event for the player, got %+v", events)
	}
}

func TestPerceptionConeRejection(t *testing.T) {
	reg, eng := newTestEngine()
	observer := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	reg.add(Vec2{0, 50}, Vec2{10, 10}, LayerPlayer, KindPlayer)

	cfg := PerceptionConfig{SightRange: 200, SightAngleDeg: 90}
	p := NewPerceptionEngine()
	events := p.Update(observer, Vec2{0, 0}, 0, cfg, reg, eng, 1.0)

	for _, e := range events {
		if e.Kind == PerceptionSight {
			t.Fatalf("expected no sight event for a target 90 degrees off facing, got %+v", e)
		}
	}
}

func TestPerceptionLineOfSightBlock(t *testing.T) {
	reg, eng := newTestEngine()
	observer := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	reg.add(Vec2{50, 0}, Vec2{10, 10}, LayerPlayer, KindPlayer)
	wall := reg.add(Vec2{25, 0}, Vec2{10, 40}, LayerWall, KindWall)
	eng.AddOrUpdateRect(wall, Vec2{10, 40}, false)

	cfg := PerceptionConfig{SightRange: 200, SightAngleDeg: 90, RequiresLOS: true, SightLayerMask: LayerWall}
	p := NewPerceptionEngine()
	events := p.Update(observer, Vec2{0, 0}, 0, cfg, reg, eng, 1.0)

	for _, e := range events {
		if e.Kind == PerceptionSight {
			t.Fatalf("expected the wall to block line of sight, got %+v", e)
		}
	}
}

func TestPerceptionMemoryExpiresByMonotonicClock(t *testing.T) {
	reg, eng := newTestEngine()
	observer := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	player := reg.add(Vec2{50, 0}, Vec2{10, 10}, LayerPlayer, KindPlayer)

	cfg := PerceptionConfig{SightRange: 200, SightAngleDeg: 90, MemoryDuration: 5}
	p := NewPerceptionEngine()
	p.Update(observer, Vec2{0, 0}, 0, cfg, reg, eng, 10.0)

	if _, ok := p.HasValidMemory(player, cfg.MemoryDuration, 14.0); !ok {
		t.Fatal("expected memory to still be valid 4 seconds later")
	}
	if _, ok := p.HasValidMemory(player, cfg.MemoryDuration, 20.0); ok {
		t.Fatal("expected memory to have expired 10 seconds later")
	}
}
