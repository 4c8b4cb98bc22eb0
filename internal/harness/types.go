package harness

import (
	"encoding/json"

	"github.com/roach88/duskfall/internal/game"
)

// Trace event types.
const (
	EventInput  = "input"
	EventPacket = "packet"
)

// TraceEvent is one line of a game transcript: either an input the
// scenario fed to the game or a packet the game sent to a player.
type TraceEvent struct {
	Type   string          `json:"type"`
	Player int             `json:"player"`
	Kind   string          `json:"kind"`
	Data   json.RawMessage `json:"data,omitempty"`
	Seq    int64           `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists inputs and packets in the order the game saw them.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary is the outcome of every player after the last step.
	Summary game.Summary `json:"summary"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddInputTrace records an input fed to the game.
func (r *Result) AddInputTrace(player int, kind string, data json.RawMessage, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventInput,
		Player: player,
		Kind:   kind,
		Data:   data,
		Seq:    seq,
	})
}

// AddPacketTrace records a packet sent to a player.
func (r *Result) AddPacketTrace(player int, kind string, data json.RawMessage, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventPacket,
		Player: player,
		Kind:   kind,
		Data:   data,
		Seq:    seq,
	})
}

// Packets returns the packet events for player p, or for every player when
// p is negative.
func (r *Result) Packets(p int) []TraceEvent {
	var out []TraceEvent
	for _, ev := range r.Trace {
		if ev.Type == EventPacket && (p < 0 || ev.Player == p) {
			out = append(out, ev)
		}
	}
	return out
}
