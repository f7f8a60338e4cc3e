// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/settei/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Settings []SettingConfig      `toml:"setting"`
	Goals    map[string]GoalConfig `toml:"goal"`
	Stages   StagesConfig          `toml:"stages"`
	Simulate SimulateConfig        `toml:"simulate"`
}

// SettingConfig maps one [[setting]] entry.
type SettingConfig struct {
	Name        string   `toml:"name"`
	Denominator *float64 `toml:"denominator"`
	Prior       *float64 `toml:"prior"`
}

// GoalConfig maps a [goal.<code>] table. Every threshold except
// recommended-sample is required once the table is present.
type GoalConfig struct {
	Label             *string  `toml:"label"`
	Members           []string `toml:"members"`
	HighGoal          *float64 `toml:"high-goal"`
	HighDiff          *float64 `toml:"high-diff"`
	MidGoal           *float64 `toml:"mid-goal"`
	MidDiff           *float64 `toml:"mid-diff"`
	LowGoal           *float64 `toml:"low-goal"`
	MinSample         *int     `toml:"min-sample"`
	RecommendedSample *int     `toml:"recommended-sample"`
}

// StagesConfig maps commentary stage bounds.
type StagesConfig struct {
	Early *int `toml:"early"`
	Mid   *int `toml:"mid"`
}

// SimulateConfig maps defaults for the simulate command.
type SimulateConfig struct {
	Setting *string `toml:"setting"`
	Spins   *int    `toml:"spins"`
	Step    *int    `toml:"step"`
	Trials  *int    `toml:"trials"`
	Workers *int    `toml:"workers"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Machine overlays the file values on base and validates the result.
func (c FileConfig) Machine(base Machine) (Machine, error) {
	m := cloneMachine(base)

	if len(c.Settings) > 0 {
		settings, prior, err := settingsFromFile(c.Settings)
		if err != nil {
			return Machine{}, err
		}
		m.Settings = settings
		m.Prior = prior
	}

	codes := make([]string, 0, len(c.Goals))
	for code := range c.Goals {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		var target *model.Goal
		switch code {
		case m.Broad.Code:
			target = &m.Broad
		case m.Narrow.Code:
			target = &m.Narrow
		default:
			return Machine{}, invalidf("unknown goal %q (expected %q or %q)", code, m.Broad.Code, m.Narrow.Code)
		}
		if err := applyGoal(target, c.Goals[code]); err != nil {
			return Machine{}, err
		}
	}

	if c.Stages.Early != nil {
		m.Stages.Early = *c.Stages.Early
	}
	if c.Stages.Mid != nil {
		m.Stages.Mid = *c.Stages.Mid
	}

	if err := m.Validate(); err != nil {
		return Machine{}, err
	}
	return m, nil
}

func settingsFromFile(entries []SettingConfig) ([]model.Setting, model.Prior, error) {
	settings := make([]model.Setting, 0, len(entries))
	withPrior := 0
	for _, e := range entries {
		if e.Name == "" {
			return nil, nil, invalidf("setting entry without name")
		}
		if e.Denominator == nil {
			return nil, nil, invalidf("setting %q: missing denominator", e.Name)
		}
		if e.Prior != nil {
			withPrior++
		}
		settings = append(settings, model.Setting{Name: e.Name, Denominator: *e.Denominator})
	}
	switch withPrior {
	case 0:
		return settings, UniformPrior(settings), nil
	case len(entries):
		prior := make(model.Prior, len(entries))
		for _, e := range entries {
			prior[e.Name] = *e.Prior
		}
		return settings, prior, nil
	default:
		return nil, nil, invalidf("prior must be given for every setting or for none")
	}
}

func applyGoal(g *model.Goal, gc GoalConfig) error {
	required := []struct {
		key string
		set bool
	}{
		{"high-goal", gc.HighGoal != nil},
		{"high-diff", gc.HighDiff != nil},
		{"mid-goal", gc.MidGoal != nil},
		{"mid-diff", gc.MidDiff != nil},
		{"low-goal", gc.LowGoal != nil},
		{"min-sample", gc.MinSample != nil},
	}
	for _, r := range required {
		if !r.set {
			return invalidf("goal %q: missing required key %q", g.Code, r.key)
		}
	}
	if gc.Label != nil {
		g.Label = *gc.Label
	}
	if len(gc.Members) > 0 {
		g.Members = append([]string(nil), gc.Members...)
	}
	g.Thresholds = model.Thresholds{
		HighGoal:  *gc.HighGoal,
		HighDiff:  *gc.HighDiff,
		MidGoal:   *gc.MidGoal,
		MidDiff:   *gc.MidDiff,
		LowGoal:   *gc.LowGoal,
		MinSample: *gc.MinSample,
	}
	if gc.RecommendedSample != nil {
		g.Thresholds.RecommendedSample = *gc.RecommendedSample
	}
	return nil
}

func cloneMachine(m Machine) Machine {
	out := m
	out.Settings = append([]model.Setting(nil), m.Settings...)
	out.Prior = make(model.Prior, len(m.Prior))
	for k, v := range m.Prior {
		out.Prior[k] = v
	}
	out.Broad.Members = append([]string(nil), m.Broad.Members...)
	out.Narrow.Members = append([]string(nil), m.Narrow.Members...)
	return out
}
