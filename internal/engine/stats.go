package engine

import (
	"context"
	"time"

	"github.com/roach88/duskfall/internal/game"
	"github.com/roach88/duskfall/internal/store"
)

// GameStarted is reported once a game leaves the lobby.
type GameStarted struct {
	GameID    string
	At        time.Time
	Modifiers []game.ModifierType
	Summary   game.Summary
}

// GameEnded is reported once a game reaches its conclusion.
type GameEnded struct {
	GameID    string
	StartedAt time.Time
	At        time.Time
	Modifiers []game.ModifierType
	Summary   game.Summary
}

// StatsRecorder persists game outcomes. Implementations must be idempotent:
// a runner may report the same game more than once.
type StatsRecorder interface {
	RecordGameStart(ctx context.Context, ev GameStarted) error
	RecordGameEnd(ctx context.Context, ev GameEnded) error
}

// NopRecorder discards every report.
type NopRecorder struct{}

func (NopRecorder) RecordGameStart(context.Context, GameStarted) error { return nil }
func (NopRecorder) RecordGameEnd(context.Context, GameEnded) error     { return nil }

// StoreRecorder writes reports to the sqlite stats store.
type StoreRecorder struct {
	store *store.Store
}

// NewStoreRecorder wraps s.
func NewStoreRecorder(s *store.Store) *StoreRecorder {
	return &StoreRecorder{store: s}
}

func (r *StoreRecorder) RecordGameStart(ctx context.Context, ev GameStarted) error {
	rec := gameRecord(ev.GameID, ev.Modifiers, ev.Summary)
	rec.StartedAt = ev.At
	return r.store.WriteGameStart(ctx, rec)
}

func (r *StoreRecorder) RecordGameEnd(ctx context.Context, ev GameEnded) error {
	rec := gameRecord(ev.GameID, ev.Modifiers, ev.Summary)
	rec.StartedAt = ev.StartedAt
	rec.EndedAt = ev.At
	return r.store.WriteGameEnd(ctx, rec)
}

func gameRecord(id string, mods []game.ModifierType, s game.Summary) store.GameRecord {
	rec := store.GameRecord{
		ID:        id,
		Day:       int(s.Day),
		Modifiers: make([]string, 0, len(mods)),
		Players:   make([]store.PlayerRecord, 0, len(s.Players)),
	}
	for _, m := range mods {
		rec.Modifiers = append(rec.Modifiers, m.String())
	}
	if s.Ended {
		rec.Conclusion = s.Conclusion.String()
	}
	for _, p := range s.Players {
		rec.Players = append(rec.Players, store.PlayerRecord{
			Index: int(p.Index),
			Name:  p.Name,
			Role:  p.Role.String(),
			Alive: p.Alive,
			Won:   p.Won,
		})
	}
	return rec
}
