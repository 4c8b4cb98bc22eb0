package game

import "time"

// PlayerSummary is the public view of one seat.
type PlayerSummary struct {
	Index     PlayerIndex `json:"index"`
	Name      string      `json:"name"`
	Alive     bool        `json:"alive"`
	Connected bool        `json:"connected"`
}

// Snapshot is everything one player may see of the game. It is what a
// reconnecting client receives.
type Snapshot struct {
	Self        PlayerIndex            `json:"self"`
	Role        Role                   `json:"role"`
	Phase       PhaseState             `json:"phase"`
	Day         uint8                  `json:"day"`
	TimeLeft    time.Duration          `json:"time_left"`
	Players     []PlayerSummary        `json:"players"`
	Graves      []Grave                `json:"graves"`
	Messages    []ChatMessage          `json:"messages"`
	Will        string                 `json:"will"`
	Controllers []ControllerParameters `json:"controllers"`
	Receive     []ChatGroup            `json:"receive"`
	Send        []ChatGroup            `json:"send"`
	Ended       bool                   `json:"ended"`
	Conclusion  Conclusion             `json:"conclusion,omitempty"`
}

func (g *Game) playerSummaries() []PlayerSummary {
	out := make([]PlayerSummary, len(g.players))
	for i := range g.players {
		pl := &g.players[i]
		out[i] = PlayerSummary{Index: PlayerIndex(i), Name: pl.name, Alive: pl.alive, Connected: pl.connected}
	}
	return out
}

// SnapshotFor returns p's view of the game.
func (g *Game) SnapshotFor(p PlayerIndex) Snapshot {
	return Snapshot{
		Self:        p,
		Role:        g.RoleOf(p),
		Phase:       g.phase,
		Day:         g.day,
		TimeLeft:    g.timeLeft,
		Players:     g.playerSummaries(),
		Graves:      g.Graves(),
		Messages:    g.Messages(p),
		Will:        g.Will(p),
		Controllers: g.ControllersFor(p),
		Receive:     g.ReceiveGroups(p),
		Send:        g.SendGroups(p),
		Ended:       g.ended,
		Conclusion:  g.conclusion,
	}
}

// PlayerResult is one player's line in a finished game's summary.
type PlayerResult struct {
	Index PlayerIndex `json:"index"`
	Name  string      `json:"name"`
	Role  Role        `json:"role"`
	Alive bool        `json:"alive"`
	Won   bool        `json:"won"`
}

// Summary describes the game for record keeping.
type Summary struct {
	Day        uint8          `json:"day"`
	Ended      bool           `json:"ended"`
	Conclusion Conclusion     `json:"conclusion,omitempty"`
	Players    []PlayerResult `json:"players"`
}

// Summary returns the current outcome of every player.
func (g *Game) Summary() Summary {
	s := Summary{Day: g.day, Ended: g.ended, Conclusion: g.conclusion}
	for _, p := range g.Players() {
		s.Players = append(s.Players, PlayerResult{
			Index: p,
			Name:  g.Name(p),
			Role:  g.RoleOf(p),
			Alive: g.Alive(p),
			Won:   g.Won(p),
		})
	}
	return s
}
