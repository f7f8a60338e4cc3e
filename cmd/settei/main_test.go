package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/settei/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.toml")))
	err := cmd.Execute()
	configPath = ""
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "eval", "--spins", "1000", "--hits", "35")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spins: 1000G")
	assert.Contains(t, out, "Observed rate: 1/28.6")
	assert.Contains(t, out, "456 chance: 76.2% (★5)")
	assert.Contains(t, out, "56 chance: 38.6% (★2)")
	assert.NotContains(t, out, "Posterior by setting")
}

func TestEvalCommandTable(t *testing.T) {
	out, err := execute(t, "eval", "--spins", "1000", "--hits", "35", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "Posterior by setting")
	assert.Contains(t, out, "Note (56):")
}

func TestEvalCommandRejectsNegativeCounts(t *testing.T) {
	_, err := execute(t, "eval", "--spins", "-1")
	require.Error(t, err)
	_, err = execute(t, "eval", "--spins", "10", "--hits", "-3")
	require.Error(t, err)
}

func TestSettingsCommand(t *testing.T) {
	out, err := execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "1/22.53")
	assert.Contains(t, out, "456,56")
	assert.Contains(t, out, "Goal 456 (4,5,6)")
	assert.Contains(t, out, "recommended 240G")
}

func TestSimulateCommandValidatesFlags(t *testing.T) {
	_, err := execute(t, "simulate", "--trials", "0")
	require.Error(t, err)
	_, err = execute(t, "simulate", "--setting", "3", "--spins", "100", "--trials", "2")
	require.Error(t, err)
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))

	fileCfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, fileCfg.Simulate.Setting)

	m, err := fileCfg.Machine(config.DefaultMachine())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMachine().Settings, m.Settings)
	assert.True(t, strings.Contains(defaultConfigTemplate(), "# [goal.56]"))
}
