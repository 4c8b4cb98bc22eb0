package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrGameNotFound is returned by ReadGame for an unknown id.
var ErrGameNotFound = errors.New("game not found")

// GameRecord is one stored game.
type GameRecord struct {
	ID         string         `json:"id"`
	StartedAt  time.Time      `json:"started_at"`
	EndedAt    time.Time      `json:"ended_at,omitzero"`
	Day        int            `json:"day"`
	Conclusion string         `json:"conclusion,omitempty"`
	Modifiers  []string       `json:"modifiers"`
	Players    []PlayerRecord `json:"players"`
}

// Ended reports whether the game reached a conclusion.
func (g GameRecord) Ended() bool { return !g.EndedAt.IsZero() }

// PlayerRecord is one seat of a stored game.
type PlayerRecord struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Alive bool   `json:"alive"`
	Won   bool   `json:"won"`
}

// RoleStat aggregates finished games by final role.
type RoleStat struct {
	Role   string `json:"role"`
	Played int    `json:"played"`
	Won    int    `json:"won"`
}

// ConclusionStat counts finished games by conclusion.
type ConclusionStat struct {
	Conclusion string `json:"conclusion"`
	Games      int    `json:"games"`
}

// marshalModifiers converts a modifier list to JSON TEXT for storage.
// HTML escaping is disabled so stored text matches the names verbatim.
func marshalModifiers(mods []string) (string, error) {
	if mods == nil {
		mods = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(mods); err != nil {
		return "", fmt.Errorf("marshal modifiers: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalModifiers parses stored JSON TEXT. Empty text is an empty list.
func unmarshalModifiers(data string) ([]string, error) {
	mods := []string{}
	if data == "" {
		return mods, nil
	}
	if err := json.Unmarshal([]byte(data), &mods); err != nil {
		return nil, fmt.Errorf("unmarshal modifiers: %w", err)
	}
	return mods, nil
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
