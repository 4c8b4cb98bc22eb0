package game

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// PlayerIndex addresses one seat of the fixed roster. Indices are minted once
// at game creation and are valid for the lifetime of the game.
type PlayerIndex uint8

// MaxPlayers is the largest roster a game accepts.
const MaxPlayers = 255

const maxNameLength = 24

// Verdict is a player's vote during Judgement.
type Verdict uint8

const (
	VerdictAbstain Verdict = iota
	VerdictInnocent
	VerdictGuilty
)

func (v Verdict) String() string {
	switch v {
	case VerdictInnocent:
		return "innocent"
	case VerdictGuilty:
		return "guilty"
	}
	return "abstain"
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "abstain":
		*v = VerdictAbstain
	case "innocent":
		*v = VerdictInnocent
	case "guilty":
		*v = VerdictGuilty
	default:
		return fmt.Errorf("unknown verdict %q", text)
	}
	return nil
}

// Tag is a marker applied to a player by abilities.
type Tag uint8

const (
	TagDoused Tag = 1 << iota
	TagFramed
)

// Player is one seat of the roster. Dead players stay in the store.
type Player struct {
	name         string
	role         RoleState
	alive        bool
	winCondition WinCondition
	vote         *PlayerIndex
	verdict      Verdict
	tags         Tag
	will         string
	messages     []ChatMessage
	night        NightVars
	connected    bool
	skipVote     bool

	// last chat groups pushed to the player, used to suppress duplicate notices
	sentReceive []ChatGroup
	sentSend    []ChatGroup
}

// NormalizeName trims and NFC-normalises a display name and truncates it to
// a bounded number of runes.
func NormalizeName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), " ")
	if utf8.RuneCountInString(name) > maxNameLength {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:maxNameLength]))
	}
	return name
}

// normalizeRoster normalises every name, fills blanks and makes duplicates
// distinct by suffixing a counter.
func normalizeRoster(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, raw := range names {
		name := NormalizeName(raw)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		key := strings.ToLower(name)
		if n := seen[key]; n > 0 {
			seen[key] = n + 1
			name = fmt.Sprintf("%s (%d)", name, n+1)
		} else {
			seen[key] = 1
		}
		out[i] = name
	}
	return out
}

// player resolves an index against the roster. An out-of-range index is a
// defect in the core and panics.
func (g *Game) player(i PlayerIndex) *Player {
	if int(i) >= len(g.players) {
		invariantf("player index %d out of range (roster %d)", i, len(g.players))
	}
	return &g.players[i]
}

// ValidPlayer reports whether i addresses a seat of this game.
func (g *Game) ValidPlayer(i PlayerIndex) bool {
	return int(i) < len(g.players)
}

// PlayerCount returns the roster size.
func (g *Game) PlayerCount() int {
	return len(g.players)
}

// Players returns every index in ascending order.
func (g *Game) Players() []PlayerIndex {
	out := make([]PlayerIndex, len(g.players))
	for i := range g.players {
		out[i] = PlayerIndex(i)
	}
	return out
}

// AlivePlayers returns the indices of living players in ascending order.
func (g *Game) AlivePlayers() []PlayerIndex {
	var out []PlayerIndex
	for i := range g.players {
		if g.players[i].alive {
			out = append(out, PlayerIndex(i))
		}
	}
	return out
}

func (g *Game) Name(p PlayerIndex) string         { return g.player(p).name }
func (g *Game) Alive(p PlayerIndex) bool          { return g.player(p).alive }
func (g *Game) RoleState(p PlayerIndex) RoleState { return g.player(p).role }
func (g *Game) Will(p PlayerIndex) string         { return g.player(p).will }
func (g *Game) Verdict(p PlayerIndex) Verdict     { return g.player(p).verdict }
func (g *Game) Connected(p PlayerIndex) bool      { return g.player(p).connected }

// RoleOf returns the role identity the player currently holds.
func (g *Game) RoleOf(p PlayerIndex) Role {
	return g.player(p).role.Role()
}

// WinConditionOf returns the player's current win condition.
func (g *Game) WinConditionOf(p PlayerIndex) WinCondition {
	return g.player(p).winCondition
}

// Vote returns the player the given player is voting to nominate.
func (g *Game) Vote(p PlayerIndex) (PlayerIndex, bool) {
	v := g.player(p).vote
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Messages returns a copy of the chat log the player has received.
func (g *Game) Messages(p PlayerIndex) []ChatMessage {
	msgs := g.player(p).messages
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// HasTag reports whether every bit of tag is set on the player.
func (g *Game) HasTag(p PlayerIndex, tag Tag) bool {
	return g.player(p).tags&tag == tag
}

func (g *Game) addTag(p PlayerIndex, tag Tag)    { g.player(p).tags |= tag }
func (g *Game) removeTag(p PlayerIndex, tag Tag) { g.player(p).tags &^= tag }

// Defense returns the player's current defense: the role's base defense
// raised by anything applied tonight.
func (g *Game) Defense(p PlayerIndex) DefensePower {
	pl := g.player(p)
	return maxDefense(pl.role.Role().Info().Defense, pl.night.UpgradedDefense)
}

// SetConnected records the transport connection state of a player.
// Connection state never affects already committed selections.
func (g *Game) SetConnected(p PlayerIndex, connected bool) {
	g.player(p).connected = connected
}

func ptr[T any](v T) *T { return &v }
