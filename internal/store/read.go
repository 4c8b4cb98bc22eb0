package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadGame returns one game with its seats in seat order.
// Returns ErrGameNotFound (wrapped) for an unknown id.
func (s *Store) ReadGame(ctx context.Context, id string) (GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, ended_at, day, conclusion, modifiers
		FROM games
		WHERE id = ?
	`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, fmt.Errorf("read game %s: %w", id, ErrGameNotFound)
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("read game %s: %w", id, err)
	}

	g.Players, err = s.readPlayers(ctx, id)
	if err != nil {
		return GameRecord{}, err
	}
	return g, nil
}

// ListGames returns the most recently started games, newest first.
// A limit of zero or less returns every game.
//
// Returns an empty slice (not nil) if no games are stored.
func (s *Store) ListGames(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, day, conclusion, modifiers
		FROM games
		ORDER BY started_at DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []GameRecord{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	for i := range games {
		games[i].Players, err = s.readPlayers(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return games, nil
}

// RoleStats counts, per final role, how often it was played and won in
// finished games. Ordered by role name.
func (s *Store) RoleStats(ctx context.Context) ([]RoleStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.role, COUNT(*), SUM(p.won)
		FROM game_players p
		JOIN games g ON g.id = p.game_id
		WHERE g.ended_at IS NOT NULL
		GROUP BY p.role
		ORDER BY p.role COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query role stats: %w", err)
	}
	defer rows.Close()

	stats := []RoleStat{}
	for rows.Next() {
		var st RoleStat
		if err := rows.Scan(&st.Role, &st.Played, &st.Won); err != nil {
			return nil, fmt.Errorf("scan role stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role stats: %w", err)
	}
	return stats, nil
}

// ConclusionStats counts finished games per conclusion, ordered by
// conclusion name.
func (s *Store) ConclusionStats(ctx context.Context) ([]ConclusionStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT conclusion, COUNT(*)
		FROM games
		WHERE ended_at IS NOT NULL
		GROUP BY conclusion
		ORDER BY conclusion COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query conclusion stats: %w", err)
	}
	defer rows.Close()

	stats := []ConclusionStat{}
	for rows.Next() {
		var st ConclusionStat
		if err := rows.Scan(&st.Conclusion, &st.Games); err != nil {
			return nil, fmt.Errorf("scan conclusion stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conclusion stats: %w", err)
	}
	return stats, nil
}

func (s *Store) readPlayers(ctx context.Context, gameID string) ([]PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, name, role, alive, won
		FROM game_players
		WHERE game_id = ?
		ORDER BY idx ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	players := []PlayerRecord{}
	for rows.Next() {
		var p PlayerRecord
		var alive, won int
		if err := rows.Scan(&p.Index, &p.Name, &p.Role, &alive, &won); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Alive = alive != 0
		p.Won = won != 0
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(sc scanner) (GameRecord, error) {
	var g GameRecord
	var started int64
	var ended sql.NullInt64
	var mods string
	if err := sc.Scan(&g.ID, &started, &ended, &g.Day, &g.Conclusion, &mods); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GameRecord{}, err
		}
		return GameRecord{}, fmt.Errorf("scan game: %w", err)
	}
	g.StartedAt = fromMillis(started)
	if ended.Valid {
		g.EndedAt = fromMillis(ended.Int64)
	}
	var err error
	if g.Modifiers, err = unmarshalModifiers(mods); err != nil {
		return GameRecord{}, err
	}
	return g, nil
}
