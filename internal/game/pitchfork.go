package game

// The pitchfork lets town loyalists vote during the day to send an angry mob
// after one player at night. It has a limited number of uses per game.
type pitchforkState struct {
	usesLeft int
	target   *PlayerIndex
}

// PitchforkUsesLeft returns how many angry mobs the town can still form.
func (g *Game) PitchforkUsesLeft() int {
	return g.pitchfork.usesLeft
}

func pitchforkOnGameStart(g *Game, _ OnGameStart) {
	g.pitchfork.usesLeft = ceilDiv(g.PlayerCount(), 5)
}

func (g *Game) pitchforkVoters() []PlayerIndex {
	var out []PlayerIndex
	for _, p := range g.AlivePlayers() {
		if g.WinConditionOf(p).isLoyalist(ConclusionTown) {
			out = append(out, p)
		}
	}
	return out
}

func pitchforkControllers(g *Game, p PlayerIndex) []ControllerParameters {
	if !g.Alive(p) || !g.WinConditionOf(p).isLoyalist(ConclusionTown) {
		return nil
	}
	var players []PlayerIndex
	for _, other := range g.AlivePlayers() {
		if other != p {
			players = append(players, other)
		}
	}
	return []ControllerParameters{{
		ID:             PitchforkVoteController(p),
		Available:      AvailablePlayerOption{Players: players, CanChooseNone: true},
		GrayedOut:      g.pitchfork.usesLeft <= 0 || !g.phase.Type.IsDay() || g.day <= 1,
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{p},
	}}
}

// pitchforkBeforePhaseEnd picks the mob's target at the end of Dusk: the
// player at least two thirds of the loyalists voted for.
func pitchforkBeforePhaseEnd(g *Game, ev BeforePhaseEnd) {
	if ev.Phase.Type != PhaseDusk || g.pitchfork.usesLeft <= 0 {
		return
	}
	voters := g.pitchforkVoters()
	if len(voters) == 0 {
		return
	}
	counts := make(map[PlayerIndex]int)
	for _, v := range voters {
		if target, ok := g.playerSelection(PitchforkVoteController(v)); ok {
			counts[target]++
		}
	}
	for _, p := range g.AlivePlayers() {
		if counts[p] > 0 && counts[p]*3 >= len(voters)*2 {
			g.pitchfork.target = ptr(p)
			g.pitchfork.usesLeft--
			g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgAngryMob, Player: ptr(p)})
			return
		}
	}
}

func pitchforkOnPhaseStart(g *Game, ev OnPhaseStart) {
	if ev.Phase.Type == PhaseObituary {
		g.pitchfork.target = nil
	}
}

func pitchforkOnMidnight(g *Game, _ OnMidnight, n *Night, priority Priority) {
	if priority != PriorityKill || g.pitchfork.target == nil {
		return
	}
	target := *g.pitchfork.target
	if g.Alive(target) {
		g.tryNightKill(n, nil, target, GraveKiller{Kind: KillerPitchfork}, AttackProtectionPiercing)
	}
}
