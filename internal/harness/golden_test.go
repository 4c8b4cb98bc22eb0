package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/duskfall/internal/game"
)

func TestAssertGolden(t *testing.T) {
	AssertGolden(t, "sample_transcript", sampleResult())
}

func TestFormatTranscript_RunningGame(t *testing.T) {
	r := NewResult()
	r.AddInputTrace(0, "tick", []byte(`"30s"`), 1)
	r.Summary = game.Summary{
		Day:     1,
		Players: []game.PlayerResult{{Index: 0, Name: "ann", Role: game.RoleMafioso, Alive: true}},
	}

	want := "scenario: running\n" +
		"[   1] input  p0 tick \"30s\"\n" +
		"day: 1\n" +
		"conclusion: none\n" +
		"  p0 ann mafioso alive -\n"
	assert.Equal(t, want, string(FormatTranscript("running", r)))
}
