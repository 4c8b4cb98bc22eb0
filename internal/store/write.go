package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteGameStart records a game that has just started.
//
// Uses ON CONFLICT DO NOTHING for idempotency: a repeated start report, or
// one that arrives after the game's end was recorded, changes nothing.
func (s *Store) WriteGameStart(ctx context.Context, g GameRecord) error {
	mods, err := marshalModifiers(g.Modifiers)
	if err != nil {
		return fmt.Errorf("write game start: %w", err)
	}

	return s.inTx(ctx, "write game start", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO games (id, started_at, day, player_count, modifiers)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, g.ID, toMillis(g.StartedAt), g.Day, len(g.Players), mods)
		if err != nil {
			return err
		}
		for _, p := range g.Players {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO game_players (game_id, idx, name, role, alive, won)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(game_id, idx) DO NOTHING
			`, g.ID, p.Index, p.Name, p.Role, boolInt(p.Alive), boolInt(p.Won))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteGameEnd records a game's outcome.
//
// The game row is created if the start report has not arrived yet. A game
// that already has an outcome keeps it; seats are updated to their final
// role and result.
func (s *Store) WriteGameEnd(ctx context.Context, g GameRecord) error {
	if g.EndedAt.IsZero() {
		return fmt.Errorf("write game end: game %s has no end time", g.ID)
	}
	mods, err := marshalModifiers(g.Modifiers)
	if err != nil {
		return fmt.Errorf("write game end: %w", err)
	}
	started := g.StartedAt
	if started.IsZero() {
		started = g.EndedAt
	}

	return s.inTx(ctx, "write game end", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO games (id, started_at, ended_at, day, conclusion, player_count, modifiers)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				ended_at = excluded.ended_at,
				day = excluded.day,
				conclusion = excluded.conclusion
			WHERE games.ended_at IS NULL
		`, g.ID, toMillis(started), toMillis(g.EndedAt), g.Day, g.Conclusion, len(g.Players), mods)
		if err != nil {
			return err
		}
		for _, p := range g.Players {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO game_players (game_id, idx, name, role, alive, won)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(game_id, idx) DO UPDATE SET
					role = excluded.role,
					alive = excluded.alive,
					won = excluded.won
			`, g.ID, p.Index, p.Name, p.Role, boolInt(p.Alive), boolInt(p.Won))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteGame removes a game and its seats. Deleting an unknown game is not
// an error.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}
