package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/settei/internal/model"
)

func TestDefaultMachineIsValid(t *testing.T) {
	m := DefaultMachine()
	require.NoError(t, m.Validate())
	assert.Len(t, m.Settings, 5)
	for _, s := range m.Settings {
		assert.InDelta(t, 0.2, m.Prior[s.Name], 1e-12)
	}
	assert.Equal(t, 220, m.Broad.Thresholds.Recommended())
}

func TestValidateRejectsMalformedMachines(t *testing.T) {
	cases := map[string]func(m *Machine){
		"no settings":        func(m *Machine) { m.Settings = nil },
		"probability >= 1":   func(m *Machine) { m.Settings[0].Denominator = 1 },
		"zero denominator":   func(m *Machine) { m.Settings[0].Denominator = 0 },
		"negative prob":      func(m *Machine) { m.Settings[0].Denominator = -3 },
		"duplicate name":     func(m *Machine) { m.Settings[1].Name = m.Settings[0].Name },
		"negative prior":     func(m *Machine) { m.Prior["1"] = -0.1 },
		"zero prior":         func(m *Machine) { m.Prior = model.Prior{"1": 0} },
		"unknown prior":      func(m *Machine) { m.Prior["3"] = 0.1 },
		"unknown member":     func(m *Machine) { m.Narrow.Members = []string{"5", "7"} },
		"empty goal":         func(m *Machine) { m.Broad.Members = nil },
		"threshold too big":  func(m *Machine) { m.Broad.Thresholds.HighGoal = 1.5 },
		"zero min sample":    func(m *Machine) { m.Narrow.Thresholds.MinSample = 0 },
		"same goal codes":    func(m *Machine) { m.Narrow.Code = m.Broad.Code },
		"stages not ordered": func(m *Machine) { m.Stages.Mid = m.Stages.Early },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := cloneMachine(DefaultMachine())
			mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMachine), "unexpected error: %v", err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	m, err := cfg.Machine(DefaultMachine())
	require.NoError(t, err)
	assert.Equal(t, DefaultMachine().Settings, m.Settings)
}

func TestLoadConfigOverlay(t *testing.T) {
	path := writeConfig(t, `
[[setting]]
name = "1"
denominator = 40.0
prior = 0.5

[[setting]]
name = "5"
denominator = 25.0
prior = 0.25

[[setting]]
name = "6"
denominator = 20.0
prior = 0.25

[goal.456]
members = ["5", "6"]
high-goal = 0.8
high-diff = 0.2
mid-goal = 0.6
mid-diff = 0.1
low-goal = 0.4
min-sample = 100

[goal.56]
label = "top"
members = ["6"]
high-goal = 0.6
high-diff = 0.1
mid-goal = 0.5
mid-diff = 0.05
low-goal = 0.3
min-sample = 150
recommended-sample = 300

[stages]
early = 500

[simulate]
trials = 12
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	m, err := cfg.Machine(DefaultMachine())
	require.NoError(t, err)

	require.Len(t, m.Settings, 3)
	assert.InDelta(t, 0.05, m.Settings[2].Prob(), 1e-12)
	assert.InDelta(t, 0.5, m.Prior["1"], 1e-12)
	assert.Equal(t, []string{"5", "6"}, m.Broad.Members)
	assert.Equal(t, 100, m.Broad.Thresholds.Recommended())
	assert.Equal(t, "top", m.Narrow.Label)
	assert.Equal(t, 300, m.Narrow.Thresholds.Recommended())
	assert.Equal(t, 500, m.Stages.Early)
	assert.Equal(t, 3000, m.Stages.Mid)
	require.NotNil(t, cfg.Simulate.Trials)
	assert.Equal(t, 12, *cfg.Simulate.Trials)
}

func TestLoadConfigFailsFast(t *testing.T) {
	cases := map[string]string{
		"missing threshold key": `
[goal.456]
high-goal = 0.8
high-diff = 0.2
mid-goal = 0.6
mid-diff = 0.1
min-sample = 100
`,
		"unknown goal": `
[goal.123]
high-goal = 0.8
`,
		"bad probability": `
[[setting]]
name = "1"
denominator = 0.5
`,
		"partial prior": `
[[setting]]
name = "4"
denominator = 30.0
prior = 0.5

[[setting]]
name = "5"
denominator = 25.0

[[setting]]
name = "6"
denominator = 22.0
`,
		"missing denominator": `
[[setting]]
name = "1"
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, body))
			require.NoError(t, err)
			_, err = cfg.Machine(DefaultMachine())
			require.ErrorIs(t, err, ErrInvalidMachine)
		})
	}
}

func TestMachineOverlayDoesNotAliasBase(t *testing.T) {
	base := DefaultMachine()
	m, err := FileConfig{}.Machine(base)
	require.NoError(t, err)
	m.Prior["1"] = 0.9
	m.Broad.Members[0] = "x"
	assert.InDelta(t, 0.2, base.Prior["1"], 1e-12)
	assert.Equal(t, "4", base.Broad.Members[0])
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
