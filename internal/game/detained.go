package game

// DetainKind is the way a player was taken out of the night.
type DetainKind uint8

const (
	DetainJail DetainKind = iota + 1
	DetainKidnap
)

func (k DetainKind) chatGroup() ChatGroup {
	if k == DetainKidnap {
		return ChatKidnapped
	}
	return ChatJail
}

// detention is one player held for the night by another. Detained players
// take no night action.
type detention struct {
	Player PlayerIndex
	By     PlayerIndex
	Kind   DetainKind
}

func (g *Game) detain(p, by PlayerIndex, kind DetainKind) {
	if g.isDetained(p) {
		return
	}
	g.detained = append(g.detained, detention{Player: p, By: by, Kind: kind})

	msg := MsgJailed
	if kind == DetainKidnap {
		msg = MsgKidnapped
	}
	g.addPrivateMessages(p, ChatMessage{Kind: msg, Player: ptr(p)})
	g.addPrivateMessages(by, ChatMessage{Kind: msg, Player: ptr(p)})
}

func (g *Game) detention(p PlayerIndex) (detention, bool) {
	for _, d := range g.detained {
		if d.Player == p {
			return d, true
		}
	}
	return detention{}, false
}

func (g *Game) isDetained(p PlayerIndex) bool {
	_, ok := g.detention(p)
	return ok
}

// detainedBy returns the player p is holding tonight.
func (g *Game) detainedBy(p PlayerIndex, kind DetainKind) (PlayerIndex, bool) {
	for _, d := range g.detained {
		if d.By == p && d.Kind == kind {
			return d.Player, true
		}
	}
	return 0, false
}

// Detained reports whether p is held for the current night.
func (g *Game) Detained(p PlayerIndex) bool {
	return g.isDetained(p)
}

func detainedOnPhaseStart(g *Game, ev OnPhaseStart) {
	if ev.Phase.Type == PhaseObituary {
		g.detained = nil
	}
}
