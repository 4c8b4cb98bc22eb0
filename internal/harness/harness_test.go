package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_MafiosoKillsSheriff(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "mafioso_kills_sheriff"))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	assert.True(t, result.Summary.Ended)
	assert.Equal(t, "mafia", result.Summary.Conclusion.String())
	require.Len(t, result.Summary.Players, 2)
	assert.Equal(t, "bob", result.Summary.Players[1].Name)
	assert.False(t, result.Summary.Players[1].Alive)

	require.NotEmpty(t, result.Trace)
	assert.Equal(t, EventPacket, result.Trace[0].Type, "start packets come before the first input")
	for i := 1; i < len(result.Trace); i++ {
		assert.Greater(t, result.Trace[i].Seq, result.Trace[i-1].Seq)
	}
}

func TestRun_RejectedInputs(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "rejected_inputs"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MessageQuota(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "message_quota"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.False(t, result.Summary.Ended)
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "mafioso_kills_sheriff")

	first, err := Run(context.Background(), s)
	require.NoError(t, err)
	second, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, string(FormatTranscript(s.Name, first)), string(FormatTranscript(s.Name, second)))
}

func TestRun_WrongExpectationFails(t *testing.T) {
	s := loadTestScenario(t, "mafioso_kills_sheriff")
	s.Flow[1].Send["data"] = map[string]any{
		"id":        map[string]any{"kind": "role", "player": 0, "role": "mafioso"},
		"selection": map[string]any{"kind": "player_option", "player": 0},
	}
	s.Flow = s.Flow[:2]
	s.Assertions = []Assertion{{Type: AssertConclusion, Value: "none"}}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "flow[1]: expected accepted input")
}

func TestRun_AssertionFailureIsReported(t *testing.T) {
	s := loadTestScenario(t, "mafioso_kills_sheriff")
	s.Assertions = []Assertion{{Type: AssertConclusion, Value: "town"}}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Expected: town")
}

func TestRun_AdvancePastEnd(t *testing.T) {
	s := loadTestScenario(t, "mafioso_kills_sheriff")
	s.Flow = append(s.Flow, FlowStep{Advance: "night"})

	_, err := Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game ended before phase night")
}

func TestRun_InvalidScenario(t *testing.T) {
	_, err := Run(context.Background(), &Scenario{Name: "empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

func TestRun_UnknownMessage(t *testing.T) {
	s := loadTestScenario(t, "mafioso_kills_sheriff")
	s.Flow = []FlowStep{{Send: map[string]any{"type": "shout"}}}

	_, err := Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow step 0")
}
