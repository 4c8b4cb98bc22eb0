package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// FormatTranscript renders a result as stable text, one event per line,
// followed by the final outcome.
func FormatTranscript(name string, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	for _, ev := range result.Trace {
		fmt.Fprintf(&b, "[%4d] %-6s p%d %s", ev.Seq, ev.Type, ev.Player, ev.Kind)
		if len(ev.Data) > 0 {
			fmt.Fprintf(&b, " %s", ev.Data)
		}
		b.WriteByte('\n')
	}

	s := result.Summary
	conclusion := "none"
	if s.Ended {
		conclusion = s.Conclusion.String()
	}
	fmt.Fprintf(&b, "day: %d\nconclusion: %s\n", s.Day, conclusion)
	for _, p := range s.Players {
		state := "dead"
		if p.Alive {
			state = "alive"
		}
		outcome := "lost"
		if p.Won {
			outcome = "won"
		}
		if !s.Ended {
			outcome = "-"
		}
		fmt.Fprintf(&b, "  p%d %s %s %s %s\n", p.Index, p.Name, p.Role, state, outcome)
	}
	return []byte(b.String())
}

// AssertGolden compares a result's transcript against
// testdata/golden/{scenarioName}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, FormatTranscript(scenarioName, result))
}
