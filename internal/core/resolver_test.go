package core

import "testing"

type recordingSink struct {
	events []string
}

func (s *recordingSink) OnCollisionPair(kind PairEventKind, a, b EntityHandle, dt float64) {
	s.events = append(s.events, kind.String())
}

func TestResolverCorrectsOverlap(t *testing.T) {
	reg, eng := newTestEngine()
	a := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	b := reg.add(Vec2{8, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	eng.AddOrUpdateRect(a, Vec2{10, 10}, true)
	eng.AddOrUpdateRect(b, Vec2{10, 10}, true)

	resolver := NewCollisionResolver(eng, nil)
	res := resolver.Resolve(a, 1.0/60)
	if !res.Applied {
		t.Fatalf("expected a correction to be applied, got %+v", res)
	}
	if res.Penetration <= 0 {
		t.Fatalf("expected positive penetration, got %v", res.Penetration)
	}
}

func TestResolverSkipsCorrectionsBeyondMax(t *testing.T) {
	reg, eng := newTestEngine()
	a := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	b := reg.add(Vec2{1, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	eng.AddOrUpdateRect(a, Vec2{10, 10}, true)
	eng.AddOrUpdateRect(b, Vec2{10, 10}, true)

	resolver := NewCollisionResolver(eng, nil)
	resolver.MaxCorrectionDistance = 0
	res := resolver.Resolve(a, 1.0/60)
	if res.Applied {
		t.Fatalf("expected the correction to be skipped as too large, got %+v", res)
	}
	if resolver.Stats.Skipped != 1 {
		t.Fatalf("expected Stats.Skipped to be incremented, got %d", resolver.Stats.Skipped)
	}
}

func TestResolverPairEventSequence(t *testing.T) {
	reg, eng := newTestEngine()
	a := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	b := reg.add(Vec2{8, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	eng.AddOrUpdateRect(a, Vec2{10, 10}, true)
	eng.AddOrUpdateRect(b, Vec2{10, 10}, true)

	sink := &recordingSink{}
	resolver := NewCollisionResolver(eng, sink)
	// Skip positional correction so the pair stays overlapped across ticks;
	// a correction would separate it on the first tick.
	resolver.MaxCorrectionDistance = 0

	resolver.Resolve(a, 1.0/60)
	resolver.Resolve(b, 1.0/60)
	resolver.EndTick(1.0 / 60)
	if len(sink.events) != 1 || sink.events[0] != "enter" {
		t.Fatalf("expected a single enter event on first tick, got %v", sink.events)
	}

	sink.events = nil
	resolver.Resolve(a, 1.0/60)
	resolver.Resolve(b, 1.0/60)
	resolver.EndTick(1.0 / 60)
	if len(sink.events) != 1 || sink.events[0] != "stay" {
		t.Fatalf("expected a single stay event on the second tick, got %v", sink.events)
	}

	reg.SetPosition(b, Vec2{1000, 1000})
	sink.events = nil
	resolver.Resolve(a, 1.0/60)
	resolver.Resolve(b, 1.0/60)
	resolver.EndTick(1.0 / 60)
	if len(sink.events) != 1 || sink.events[0] != "exit" {
		t.Fatalf("expected a single exit event once the pair separates, got %v", sink.events)
	}
}
