package core

import (
	"math"
	"testing"
)

func defaultAgentConfig() AgentConfig {
	cfg := AgentConfig{
		Profile: ProfileAggressive,
		Perception: PerceptionConfig{
			SightRange: 200, SightAngleDeg: 180, HearingRange: 0, ProximityRange: 0,
		},
		Pathfinding: PathfindingConfig{GridSize: 16, MaxIterations: 2000},
		HealthThreshold:   0.2,
		Aggression:        1,
		Caution:           1,
		InvestigationTime: 3,
		AlertDuration:     5,
		Speed:             100,
		AttackRange:       32,
		FleeDistance:      150,
		PrioritizePlayer:  true,
	}
	cfg.Clamp()
	return cfg
}

func TestAggressiveAgentAttacksPlayerInRange(t *testing.T) {
	reg, eng := newTestEngine()
	pf := NewPathfindingEngine(eng)
	mv := NewMovementHelper(eng)

	enemy := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	player := reg.add(Vec2{20, 0}, Vec2{10, 10}, LayerPlayer, KindPlayer)

	agent := NewAgent(enemy, defaultAgentConfig(), nil)
	agent.HealthPct = 1

	for i := 0; i < 3; i++ {
		agent.Tick(1.0/60, float64(i)/60, reg, eng, pf, mv)
	}

	if agent.State != StateAttack {
		t.Fatalf("expected the agent to reach Attack within a few ticks, got %v", agent.State)
	}
	if reg.damage[player] <= 0 {
		t.Fatalf("expected the player to have taken damage, got %v", reg.damage[player])
	}
}

func TestDeadIsAbsorbing(t *testing.T) {
	reg, eng := newTestEngine()
	pf := NewPathfindingEngine(eng)
	mv := NewMovementHelper(eng)
	enemy := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)

	agent := NewAgent(enemy, defaultAgentConfig(), nil)
	agent.State = StateDead
	before := reg.entities[enemy].Position

	agent.Tick(1.0/60, 1.0, reg, eng, pf, mv)

	if agent.State != StateDead {
		t.Fatalf("expected Dead to be absorbing, got %v", agent.State)
	}
	if reg.entities[enemy].Position != before {
		t.Fatalf("expected a dead agent's position not to change")
	}
}

func TestFleeOnLowHealth(t *testing.T) {
	reg, eng := newTestEngine()
	pf := NewPathfindingEngine(eng)
	mv := NewMovementHelper(eng)

	enemy := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
	reg.add(Vec2{50, 0}, Vec2{10, 10}, LayerPlayer, KindPlayer)

	cfg := defaultAgentConfig()
	cfg.HealthThreshold = 0.2
	cfg.Caution = 1
	agent := NewAgent(enemy, cfg, nil)
	agent.HealthPct = 0.1

	agent.Tick(1.0/60, 1.0, reg, eng, pf, mv)

	if agent.State != StateFlee {
		t.Fatalf("expected the agent to flee at low health, got %v", agent.State)
	}
}

func TestPrimaryTargetIsAlwaysMaximal(t *testing.T) {
	agent := NewAgent(1, defaultAgentConfig(), nil)
	agent.addTarget(2, PriorityLow)
	agent.addTarget(3, PriorityHigh)
	agent.addTarget(4, PriorityMedium)

	if agent.PrimaryTarget != 3 {
		t.Fatalf("expected handle 3 (High) to be primary, got %v", agent.PrimaryTarget)
	}
	agent.removeTarget(3)
	if agent.PrimaryTarget != 4 {
		t.Fatalf("expected handle 4 (Medium) to become primary after 3 is removed, got %v", agent.PrimaryTarget)
	}
}

func TestFollowPathScalesDisplacementByDt(t *testing.T) {
	run := func(dt float64) float64 {
		reg, eng := newTestEngine()
		mv := NewMovementHelper(eng)

		enemy := reg.add(Vec2{0, 0}, Vec2{10, 10}, LayerEnemy, KindEnemy)
		agent := NewAgent(enemy, defaultAgentConfig(), nil)
		agent.HealthPct = 1
		agent.State = StatePatrol
		agent.CurrentPath = []Vec2{{X: 1000, Y: 0}}

		snap, _ := reg.Get(enemy)
		before := snap.Position
		agent.followPath(dt, snap, reg, eng, mv)
		after, _ := reg.Get(enemy)
		return after.Position.Distance(before)
	}

	small := run(1.0 / 60)
	large := run(2.0 / 60)

	if small <= 0 {
		t.Fatalf("expected a nonzero step, got %v", small)
	}
	want := small * 2
	if math.Abs(large-want) > 1e-6 {
		t.Fatalf("expected displacement to scale linearly with dt: dt=1/60 moved %v, dt=2/60 moved %v, want ~%v", small, large, want)
	}
}

func TestCooldownMonotonicity(t *testing.T) {
	c := cooldowns{Attack: 1}
	c.tick(0.3)
	if c.Attack > 0.7001 {
		t.Fatalf("expected cooldown to decrease by dt, got %v", c.Attack)
	}
	c.tick(10)
	if c.Attack < 0 {
		t.Fatalf("expected cooldown to clamp at zero, got %v", c.Attack)
	}
}
