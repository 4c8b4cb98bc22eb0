package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nightKillScenario = `
name: night_kill
description: "the mafioso kills the sheriff"
players: [ann, bob]
settings:
  roles: [mafioso, sheriff]
  seed: 7
  assign_in_order: true
flow:
  - advance: night
  - player: 0
    send:
      type: ability_input
      data:
        id: {kind: role, player: 0, role: mafioso}
        selection: {kind: player_option, player: 1}
    expect: accepted
  - advance: obituary
assertions:
  - type: conclusion
    value: mafia
`

const stalledScenario = `
name: stalled
description: "expects a conclusion that never comes"
players: [ann, bob]
settings:
  roles: [mafioso, sheriff]
flow:
  - advance: discussion
assertions:
  - type: conclusion
    value: town
`

func TestSimulate_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "night_kill.yaml", nightKillScenario)

	out, err := execute(t, "simulate", path, "--transcript")
	require.NoError(t, err)
	assert.Contains(t, out, "scenario: night_kill")
	assert.Contains(t, out, "conclusion: mafia")
	assert.Contains(t, out, "✓ night_kill")
}

func TestSimulate_FileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "night_kill.yaml", nightKillScenario)

	out, err := execute(t, "simulate", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name   string `json:"name"`
			Result struct {
				Pass bool `json:"pass"`
			} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "night_kill", resp.Data.Name)
	assert.True(t, resp.Data.Result.Pass)
}

func TestSimulate_Failure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stalled.yaml", stalledScenario)

	out, err := execute(t, "simulate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ stalled")
	assert.Contains(t, out, "Expected: town")
}

func TestSimulate_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "night_kill.yaml", nightKillScenario)
	writeFile(t, dir, "stalled.yaml", stalledScenario)

	out, err := execute(t, "simulate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ "+filepath.Join(dir, "stalled.yaml"))
	assert.Contains(t, out, "Summary: 1 passed, 1 failed, 2 total")

	out, err = execute(t, "simulate", dir, "--filter", "night_*")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestSimulate_EmptyDirectory(t *testing.T) {
	out, err := execute(t, "simulate", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestSimulate_CommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "simulate", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	bad := writeFile(t, dir, "bad.yaml", "name: bad\n")
	_, err = execute(t, "simulate", bad)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "simulate", dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFilterScenarios(t *testing.T) {
	paths := []string{"s/night_kill.yaml", "s/day_vote.yml", "s/night_save.yaml"}

	got, err := filterScenarios(paths, "night_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"s/night_kill.yaml", "s/night_save.yaml"}, got)

	got, err = filterScenarios(paths, "")
	require.NoError(t, err)
	assert.Equal(t, paths, got)
}
