package game

import "fmt"

// Conclusion is the outcome of a finished game.
type Conclusion uint8

const (
	ConclusionTown Conclusion = iota + 1
	ConclusionMafia
	ConclusionCult
	ConclusionFiends
	ConclusionDraw
)

// conclusionOrder is the order conclusions are tried in by the win check.
var conclusionOrder = []Conclusion{ConclusionTown, ConclusionMafia, ConclusionCult, ConclusionFiends}

func (c Conclusion) String() string {
	switch c {
	case ConclusionTown:
		return "town"
	case ConclusionMafia:
		return "mafia"
	case ConclusionCult:
		return "cult"
	case ConclusionFiends:
		return "fiends"
	case ConclusionDraw:
		return "draw"
	}
	return fmt.Sprintf("conclusion(%d)", uint8(c))
}

func (c Conclusion) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// WinCondition is the set of conclusions a player wins with. A role-state
// win condition ignores conclusions and asks the role instead.
type WinCondition struct {
	roleStateWon bool
	accepts      uint8
}

// WinIfAny wins when the game concludes with any of cs.
func WinIfAny(cs ...Conclusion) WinCondition {
	var w WinCondition
	for _, c := range cs {
		w.accepts |= 1 << c
	}
	return w
}

// RoleStateWins defers the win to the role's own state.
func RoleStateWins() WinCondition {
	return WinCondition{roleStateWon: true}
}

func (w WinCondition) Accepts(c Conclusion) bool {
	return !w.roleStateWon && w.accepts&(1<<c) != 0
}

func (w WinCondition) IsRoleStateWon() bool { return w.roleStateWon }

// isLoyalist reports whether the condition accepts exactly c.
func (w WinCondition) isLoyalist(c Conclusion) bool {
	return w == WinIfAny(c)
}

func (w WinCondition) String() string {
	if w.roleStateWon {
		return "role_state"
	}
	s := ""
	for _, c := range conclusionOrder {
		if w.Accepts(c) {
			if s != "" {
				s += "|"
			}
			s += c.String()
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Conclusion returns the outcome once the game has ended.
func (g *Game) Conclusion() (Conclusion, bool) {
	return g.conclusion, g.ended
}

// Ended reports whether the game is over.
func (g *Game) Ended() bool { return g.ended }

// gameConclusion decides whether the game is over. It is a draw when no
// living player keeps the game running; otherwise the first conclusion every
// such player accepts wins.
func (g *Game) gameConclusion() (Conclusion, bool) {
	var running []PlayerIndex
	for _, p := range g.AlivePlayers() {
		if g.RoleOf(p).Info().KeepsGameRunning {
			running = append(running, p)
		}
	}
	if len(running) == 0 {
		return ConclusionDraw, true
	}
	for _, c := range conclusionOrder {
		all := true
		for _, p := range running {
			if !g.WinConditionOf(p).Accepts(c) {
				all = false
				break
			}
		}
		if all {
			return c, true
		}
	}
	return 0, false
}

func (g *Game) checkWin() {
	if !g.started || g.ended || g.deferWin {
		return
	}
	if c, ok := g.gameConclusion(); ok {
		g.endGame(c)
	}
}

func (g *Game) endGame(c Conclusion) {
	g.ended = true
	g.conclusion = c
	g.log.Info().Str("conclusion", c.String()).Uint8("day", g.day).Msg("game over")
	OnGameEnding{Conclusion: c}.Invoke(g)
}

// Won reports whether p won the finished game.
func (g *Game) Won(p PlayerIndex) bool {
	if !g.ended {
		return false
	}
	wc := g.WinConditionOf(p)
	if wc.IsRoleStateWon() {
		w, ok := g.RoleState(p).(winner)
		return ok && w.Won()
	}
	return wc.Accepts(g.conclusion)
}

func gameEndingNotify(g *Game, ev OnGameEnding) {
	g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgGameOver, Conclusion: ev.Conclusion})
	for _, p := range g.Players() {
		won := g.Won(p)
		kind := MsgPlayerLost
		if won {
			kind = MsgPlayerWon
		}
		g.addMessageToGroup(ChatAll, ChatMessage{Kind: kind, Player: ptr(p), Role: g.RoleOf(p)})
		g.send(p, GameOverPacket{Conclusion: ev.Conclusion, Won: won})
	}
}

func winOnPhaseStart(g *Game, _ OnPhaseStart)  { g.checkWin() }
func winOnAnyDeath(g *Game, _ OnAnyDeath)      { g.checkWin() }
func winOnRoleSwitch(g *Game, _ OnRoleSwitch)  { g.checkWin() }
