package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const machineMD = `---
declarations: "clock y;"
locations:
  - id: L5
    initial: true
  - id: L4
    invariant: y <= 6
edges:
  - {from: L5, to: L4, input: coin, update: y = 0}
  - {from: L5, to: L5, output: tea, guard: y >= 2}
  - {from: L4, to: L5, output: cof, guard: y >= 4}
  - {from: L4, to: L5, output: tea}
---
The coffee machine.`

func TestLoadConfig_FlagOverrides(t *testing.T) {
	project := testutils.ComponentDir(t, map[string]string{
		"zonecheck.yaml": "components: {dir: models}\nlog_level: warn\n",
	})

	cmd := &cobra.Command{Use: "test"}
	addGlobalFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{
		"--config", filepath.Join(project, "zonecheck.yaml"),
		"--cache", "sqlite",
		"--workers", "3",
		"--log-format", "json",
	}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "models"), cfg.Components.Dir)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, 3, cfg.Checks.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	require.NoError(t, cmd.Flags().Set("log-level", "loud"))
	_, err = loadConfig(cmd)
	assert.Error(t, err)
}

func TestQueryCommand(t *testing.T) {
	dir := testutils.ComponentDir(t, map[string]string{"Machine.md": machineMD})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"query",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--dir", dir,
		"--cache", "memory",
		"--quiet",
		"determinism: Machine",
		"consistency: Machine",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "2 of 2 queries satisfied"), out.String())
}
