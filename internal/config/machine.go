// Package config provides the machine definition and its validation.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/settei/internal/model"
)

// ErrInvalidMachine is wrapped by every validation failure.
var ErrInvalidMachine = errors.New("invalid machine configuration")

// Goal codes of the built-in machine.
const (
	GoalBroad  = "456"
	GoalNarrow = "56"
)

// Machine is the static configuration the engine evaluates against.
// It must not be mutated after Validate succeeds.
type Machine struct {
	Settings  []model.Setting
	Prior     model.Prior
	Broad     model.Goal
	Narrow    model.Goal
	Stages    model.StageBounds
	Templates model.TemplateBank
}

// DefaultMachine returns the built-in machine with a uniform prior.
func DefaultMachine() Machine {
	settings := []model.Setting{
		{Name: "1", Denominator: 38.15},
		{Name: "2", Denominator: 36.86},
		{Name: "4", Denominator: 30.27},
		{Name: "5", Denominator: 24.51},
		{Name: "6", Denominator: 22.53},
	}
	return Machine{
		Settings: settings,
		Prior:    UniformPrior(settings),
		Broad: model.Goal{
			Code:    GoalBroad,
			Label:   "456",
			Members: []string{"4", "5", "6"},
			Thresholds: model.Thresholds{
				HighGoal:          0.75,
				HighDiff:          0.15,
				MidGoal:           0.65,
				MidDiff:           0.07,
				LowGoal:           0.48,
				MinSample:         120,
				RecommendedSample: 220,
			},
		},
		Narrow: model.Goal{
			Code:    GoalNarrow,
			Label:   "56",
			Members: []string{"5", "6"},
			Thresholds: model.Thresholds{
				HighGoal:          0.58,
				HighDiff:          0.08,
				MidGoal:           0.50,
				MidDiff:           0.04,
				LowGoal:           0.35,
				MinSample:         160,
				RecommendedSample: 240,
			},
		},
		Stages:    model.StageBounds{Early: 1000, Mid: 3000},
		Templates: DefaultTemplates(),
	}
}

// UniformPrior spreads weight evenly over the settings.
func UniformPrior(settings []model.Setting) model.Prior {
	prior := make(model.Prior, len(settings))
	if len(settings) == 0 {
		return prior
	}
	w := 1.0 / float64(len(settings))
	for _, s := range settings {
		prior[s.Name] = w
	}
	return prior
}

// Setting looks up a setting by name.
func (m Machine) Setting(name string) (model.Setting, bool) {
	for _, s := range m.Settings {
		if s.Name == name {
			return s, true
		}
	}
	return model.Setting{}, false
}

// Validate checks the machine and reports the first problem found.
func (m Machine) Validate() error {
	if len(m.Settings) == 0 {
		return invalidf("no settings defined")
	}
	seen := make(map[string]struct{}, len(m.Settings))
	for _, s := range m.Settings {
		if s.Name == "" {
			return invalidf("setting with empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return invalidf("duplicate setting %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		p := s.Prob()
		if math.IsNaN(p) || p <= 0 || p >= 1 {
			return invalidf("setting %q: hit probability 1/%g is outside (0,1)", s.Name, s.Denominator)
		}
	}

	var priorTotal float64
	for name, w := range m.Prior {
		if _, ok := seen[name]; !ok {
			return invalidf("prior references unknown setting %q", name)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return invalidf("prior for setting %q must be a non-negative number", name)
		}
		priorTotal += w
	}
	if priorTotal <= 0 {
		return invalidf("prior weights sum to zero")
	}

	for _, g := range []model.Goal{m.Broad, m.Narrow} {
		if err := validateGoal(g, seen); err != nil {
			return err
		}
	}
	if m.Broad.Code == m.Narrow.Code {
		return invalidf("goal codes must differ, both are %q", m.Broad.Code)
	}

	if m.Stages.Early <= 0 || m.Stages.Mid <= m.Stages.Early {
		return invalidf("stage bounds must satisfy 0 < early < mid (got %d, %d)", m.Stages.Early, m.Stages.Mid)
	}
	return nil
}

func validateGoal(g model.Goal, settings map[string]struct{}) error {
	if g.Code == "" {
		return invalidf("goal with empty code")
	}
	if len(g.Members) == 0 {
		return invalidf("goal %q has no members", g.Code)
	}
	for _, name := range g.Members {
		if _, ok := settings[name]; !ok {
			return invalidf("goal %q references unknown setting %q", g.Code, name)
		}
	}
	th := g.Thresholds
	probs := map[string]float64{
		"high-goal": th.HighGoal,
		"high-diff": th.HighDiff,
		"mid-goal":  th.MidGoal,
		"mid-diff":  th.MidDiff,
		"low-goal":  th.LowGoal,
	}
	for key, v := range probs {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return invalidf("goal %q: %s must be within [0,1], got %g", g.Code, key, v)
		}
	}
	if th.MinSample <= 0 {
		return invalidf("goal %q: min-sample must be > 0", g.Code)
	}
	if th.RecommendedSample < 0 {
		return invalidf("goal %q: recommended-sample must be >= 0", g.Code)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMachine, fmt.Sprintf(format, args...))
}
