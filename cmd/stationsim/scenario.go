package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/abyssal-station/ai-collision-core/internal/core"
)

// scenarioFile is the on-disk (YAML) shape of a scenario. It lives
// entirely in the harness: internal/core never parses a file format of
// its own (§6 — "no persisted file format at the boundary of the AI
// core"). viper handles the file/env precedence chain; the decoded
// struct is then turned into core.AgentConfig/core.CoordinationConfig
// values below.
type scenarioFile struct {
	Name        string           `mapstructure:"name"`
	GridSize    float64          `mapstructure:"grid_size"`
	Coordination coordinationSpec `mapstructure:"coordination"`
	Patrols     [][]vec2Spec     `mapstructure:"patrols"`
	Agents      []agentSpec      `mapstructure:"agents"`
	Players     []entitySpec     `mapstructure:"players"`
	Walls       []wallSpec       `mapstructure:"walls"`
}

type vec2Spec struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

type entitySpec struct {
	Position vec2Spec `mapstructure:"position"`
	Size     vec2Spec `mapstructure:"size"`
	Health   float64  `mapstructure:"health"`
}

type wallSpec struct {
	Position vec2Spec `mapstructure:"position"`
	Size     vec2Spec `mapstructure:"size"`
}

type coordinationSpec struct {
	Enabled      bool    `mapstructure:"enabled"`
	AlertRadius  float64 `mapstructure:"alert_radius"`
	ShareTargets bool    `mapstructure:"share_targets"`
	GroupBehaviors bool  `mapstructure:"group_behaviors"`
}

type agentSpec struct {
	Profile           string   `mapstructure:"profile"`
	Position          vec2Spec `mapstructure:"position"`
	PatrolIndex       int      `mapstructure:"patrol_index"`
	SightRange        float64  `mapstructure:"sight_range"`
	SightAngleDeg     float64  `mapstructure:"sight_angle_deg"`
	HearingRange      float64  `mapstructure:"hearing_range"`
	HealthThreshold   float64  `mapstructure:"health_threshold"`
	Aggression        float64  `mapstructure:"aggression"`
	Caution           float64  `mapstructure:"caution"`
	Speed             float64  `mapstructure:"speed"`
	AttackRange       float64  `mapstructure:"attack_range"`
	AttackDamage      float64  `mapstructure:"attack_damage"`
	FleeDistance      float64  `mapstructure:"flee_distance"`
	Health            float64  `mapstructure:"health"`
}

func profileFromName(name string) core.BehaviorProfile {
	switch name {
	case "defensive":
		return core.ProfileDefensive
	case "neutral":
		return core.ProfileNeutral
	case "passive":
		return core.ProfilePassive
	case "guard":
		return core.ProfileGuard
	case "scout":
		return core.ProfileScout
	default:
		return core.ProfileAggressive
	}
}

func toVec2(v vec2Spec) core.Vec2 { return core.Vec2{X: v.X, Y: v.Y} }

// loadScenario reads a YAML scenario through viper (which also honors
// STATIONSIM_-prefixed environment overrides) and decodes it via
// mapstructure into scenarioFile, the harness's own type — never a
// core type, keeping gopkg.in/yaml.v3 and viper entirely off internal/core.
func loadScenario(path string) (scenarioFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("STATIONSIM")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return scenarioFile{}, fmt.Errorf("stationsim: reading scenario %q: %w", path, err)
	}

	var sf scenarioFile
	if err := v.Unmarshal(&sf); err != nil {
		return scenarioFile{}, fmt.Errorf("stationsim: decoding scenario %q: %w", path, err)
	}
	if sf.GridSize <= 0 {
		sf.GridSize = 16
	}
	return sf, nil
}

// defaultScenario is used whenever the harness is run without -scenario,
// so `stationsim run` works out of the box for a quick smoke check.
func defaultScenario() scenarioFile {
	return scenarioFile{
		Name:     "default-corridor",
		GridSize: 16,
		Coordination: coordinationSpec{
			Enabled: true, AlertRadius: 120, ShareTargets: true, GroupBehaviors: true,
		},
		Patrols: [][]vec2Spec{
			{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 200}, {X: 0, Y: 200}},
		},
		Agents: []agentSpec{
			{Profile: "guard", Position: vec2Spec{X: 0, Y: 0}, PatrolIndex: 0,
				SightRange: 180, SightAngleDeg: 120, HearingRange: 80,
				HealthThreshold: 0.25, Aggression: 0.8, Caution: 0.4,
				Speed: 80, AttackRange: 28, AttackDamage: 8, FleeDistance: 140, Health: 100},
			{Profile: "scout", Position: vec2Spec{X: 200, Y: 200}, PatrolIndex: 0,
				SightRange: 220, SightAngleDeg: 100, HearingRange: 100,
				HealthThreshold: 0.3, Aggression: 0.3, Caution: 0.7,
				Speed: 110, AttackRange: 20, AttackDamage: 5, FleeDistance: 160, Health: 80},
		},
		Players: []entitySpec{
			{Position: vec2Spec{X: 100, Y: 100}, Size: vec2Spec{X: 12, Y: 12}, Health: 100},
		},
		Walls: []wallSpec{
			{Position: vec2Spec{X: 100, Y: 0}, Size: vec2Spec{X: 16, Y: 16}},
		},
	}
}
