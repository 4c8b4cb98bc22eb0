package harness

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/duskfall/internal/game"
	"github.com/roach88/duskfall/internal/store"
)

func intPtr(v int) *int { return &v }

// sampleResult is a finished two-player game as the harness would record
// it.
func sampleResult() *Result {
	r := NewResult()
	r.AddPacketTrace(0, "role", json.RawMessage(`{"role":"mafioso"}`), 1)
	r.AddPacketTrace(1, "role", json.RawMessage(`{"role":"sheriff"}`), 2)
	r.AddPacketTrace(0, "phase", json.RawMessage(`{"phase":{"type":"night"},"day":1}`), 3)
	r.AddInputTrace(1, "ability_input", json.RawMessage(`{"id":{"kind":"role","player":0}}`), 4)
	r.AddPacketTrace(1, "rejected", json.RawMessage(`{"reason":"player 1 may not use role"}`), 5)
	r.AddPacketTrace(0, "game_over", json.RawMessage(`{"conclusion":"mafia","won":true}`), 6)
	r.AddPacketTrace(1, "game_over", json.RawMessage(`{"conclusion":"mafia","won":false}`), 7)
	r.Summary = game.Summary{
		Day:        2,
		Ended:      true,
		Conclusion: game.ConclusionMafia,
		Players: []game.PlayerResult{
			{Index: 0, Name: "ann", Role: game.RoleMafioso, Alive: true, Won: true},
			{Index: 1, Name: "bob", Role: game.RoleSheriff, Alive: false, Won: false},
		},
	}
	return r
}

func TestEvaluateAssertions_Trace(t *testing.T) {
	result := sampleResult()

	tests := []struct {
		name      string
		assertion Assertion
		pass      bool
	}{
		{"contains", Assertion{Type: AssertTraceContains, Packet: "game_over", Data: map[string]any{"won": true}}, true},
		{"contains for player", Assertion{Type: AssertTraceContains, Player: intPtr(1), Packet: "game_over", Data: map[string]any{"won": true}}, false},
		{"contains nested", Assertion{Type: AssertTraceContains, Packet: "phase", Data: map[string]any{"day": 1}}, true},
		{"contains wrong value", Assertion{Type: AssertTraceContains, Packet: "game_over", Data: map[string]any{"conclusion": "town"}}, false},
		{"inputs are not packets", Assertion{Type: AssertTraceContains, Packet: "ability_input"}, false},
		{"order", Assertion{Type: AssertTraceOrder, Packets: []string{"role", "phase", "game_over"}}, true},
		{"order for player", Assertion{Type: AssertTraceOrder, Player: intPtr(1), Packets: []string{"role", "rejected", "game_over"}}, true},
		{"order reversed", Assertion{Type: AssertTraceOrder, Packets: []string{"game_over", "role"}}, false},
		{"count all", Assertion{Type: AssertTraceCount, Packet: "game_over", Count: 2}, true},
		{"count player", Assertion{Type: AssertTraceCount, Player: intPtr(0), Packet: "rejected", Count: 0}, true},
		{"count wrong", Assertion{Type: AssertTraceCount, Packet: "role", Count: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(result, []Assertion{tt.assertion}, nil)
			if tt.pass {
				assert.Empty(t, errs)
			} else {
				assert.Len(t, errs, 1)
			}
		})
	}
}

func TestEvaluateAssertions_Outcome(t *testing.T) {
	result := sampleResult()

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"conclusion", Assertion{Type: AssertConclusion, Value: "mafia"}, ""},
		{"wrong conclusion", Assertion{Type: AssertConclusion, Value: "town"}, "Expected: town"},
		{"player", Assertion{Type: AssertPlayer, Player: intPtr(0), Expect: map[string]any{"name": "ann", "role": "mafioso", "won": true}}, ""},
		{"dead player", Assertion{Type: AssertPlayer, Player: intPtr(1), Expect: map[string]any{"alive": false}}, ""},
		{"wrong role", Assertion{Type: AssertPlayer, Player: intPtr(1), Expect: map[string]any{"role": "mafioso"}}, "player 1 role = sheriff"},
		{"unknown field", Assertion{Type: AssertPlayer, Player: intPtr(1), Expect: map[string]any{"mood": "grim"}}, "unknown field"},
		{"unseated", Assertion{Type: AssertPlayer, Player: intPtr(5), Expect: map[string]any{"alive": true}}, "not seated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(result, []Assertion{tt.assertion}, nil)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestEvaluateAssertions_ConclusionWhileRunning(t *testing.T) {
	result := NewResult()
	result.Summary = game.Summary{Day: 1}

	assert.Empty(t, EvaluateAssertions(result, []Assertion{{Type: AssertConclusion, Value: "none"}}, nil))
}

func TestEvaluateAssertions_FinalState(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, st.WriteGameEnd(ctx, store.GameRecord{
		ID:         "g1",
		StartedAt:  start,
		EndedAt:    start.Add(20 * time.Minute),
		Day:        2,
		Conclusion: "mafia",
		Players: []store.PlayerRecord{
			{Index: 0, Name: "ann", Role: "mafioso", Alive: true, Won: true},
			{Index: 1, Name: "bob", Role: "sheriff", Alive: false, Won: false},
		},
	}))

	actx := &AssertionContext{Store: st, Ctx: ctx}
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"game row", Assertion{Type: AssertFinalState, Table: "games", Where: map[string]any{"id": "g1"}, Expect: map[string]any{"conclusion": "mafia", "day": 2, "player_count": 2}}, ""},
		{"seat row", Assertion{Type: AssertFinalState, Table: "game_players", Where: map[string]any{"game_id": "g1", "idx": 1}, Expect: map[string]any{"alive": false, "won": false, "role": "sheriff"}}, ""},
		{"bool where", Assertion{Type: AssertFinalState, Table: "game_players", Where: map[string]any{"won": true}, Expect: map[string]any{"name": "ann"}}, ""},
		{"wrong value", Assertion{Type: AssertFinalState, Table: "games", Where: map[string]any{"id": "g1"}, Expect: map[string]any{"conclusion": "town"}}, `field "conclusion"`},
		{"missing row", Assertion{Type: AssertFinalState, Table: "games", Where: map[string]any{"id": "nope"}, Expect: map[string]any{"day": 1}}, "row not found"},
		{"ambiguous", Assertion{Type: AssertFinalState, Table: "game_players", Where: map[string]any{"game_id": "g1"}, Expect: map[string]any{"role": "sheriff"}}, "multiple rows matched"},
		{"missing column", Assertion{Type: AssertFinalState, Table: "games", Where: map[string]any{"id": "g1"}, Expect: map[string]any{"winner": "mafia"}}, "not present"},
		{"bad table", Assertion{Type: AssertFinalState, Table: "games; DROP TABLE games", Expect: map[string]any{"day": 1}}, "invalid table name"},
		{"bad column", Assertion{Type: AssertFinalState, Table: "games", Where: map[string]any{"id OR 1=1": "x"}, Expect: map[string]any{"day": 1}}, "invalid column name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(NewResult(), []Assertion{tt.assertion}, actx)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestEvaluateAssertions_FinalStateNeedsStore(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: AssertFinalState, Table: "games", Expect: map[string]any{"day": 1}}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "requires database context")
}

func TestBuildWhereClause(t *testing.T) {
	sql, args, err := buildWhereClause(map[string]any{"idx": 1, "game_id": "g1", "alive": true})
	require.NoError(t, err)
	assert.Equal(t, "alive = ? AND game_id = ? AND idx = ?", sql)
	assert.Equal(t, []any{int64(1), "g1", 1}, args)

	sql, args, err = buildWhereClause(nil)
	require.NoError(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}
