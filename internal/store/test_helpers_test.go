package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testEpoch = time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)

// createTestGame creates a started game with n seats.
func createTestGame(id string, n int, started time.Time) GameRecord {
	g := GameRecord{
		ID:        id,
		StartedAt: started,
		Day:       1,
		Modifiers: []string{},
		Players:   make([]PlayerRecord, n),
	}
	for i := range g.Players {
		g.Players[i] = PlayerRecord{Index: i, Name: fmt.Sprintf("player%d", i), Role: "sheriff", Alive: true}
	}
	return g
}

// finish marks g as ended with the given conclusion.
func finish(g GameRecord, conclusion string, ended time.Time) GameRecord {
	g.EndedAt = ended
	g.Conclusion = conclusion
	g.Day = 3
	return g
}

// verifyPragma checks that a pragma reads back as expected.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
