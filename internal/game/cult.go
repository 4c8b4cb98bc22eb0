package game

// CultAbility is what the cult does on its next night. The cult alternates
// between converting and killing.
type CultAbility uint8

const (
	CultConvert CultAbility = iota
	CultKill
)

type cultState struct {
	next     CultAbility
	usedLast *CultAbility
}

// CultNextAbility returns the ability the cult may use tonight.
func (g *Game) CultNextAbility() CultAbility {
	return g.cult.next
}

func (g *Game) cultUsed(a CultAbility) {
	g.cult.usedLast = &a
}

// cultMembers are the living cult insiders holding a cult role.
func (g *Game) cultMembers() []PlayerIndex {
	var out []PlayerIndex
	for _, p := range g.Insiders(InsiderCult) {
		if g.Alive(p) && g.RoleOf(p).Faction() == FactionCult {
			out = append(out, p)
		}
	}
	return out
}

func cultOnPhaseStart(g *Game, ev OnPhaseStart) {
	if ev.Phase.Type != PhaseNight {
		return
	}
	if g.cult.usedLast != nil {
		if *g.cult.usedLast == CultKill {
			g.cult.next = CultConvert
		} else {
			g.cult.next = CultKill
		}
		g.cult.usedLast = nil
	}
	if len(g.cultMembers()) == 0 {
		return
	}
	if g.cult.next == CultKill {
		g.addMessageToGroup(ChatCult, ChatMessage{Kind: MsgCultKillsNext})
	} else {
		g.addMessageToGroup(ChatCult, ChatMessage{Kind: MsgCultConvertsNext})
	}
}
