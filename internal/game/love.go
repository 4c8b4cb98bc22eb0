package game

// createLoveLinks pairs up the living players at random. With an odd count
// the last player stays single.
func (g *Game) createLoveLinks() {
	players := g.AlivePlayers()
	g.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
	for i := 0; i+1 < len(players); i += 2 {
		g.linkLovers(players[i], players[i+1])
	}
}

func (g *Game) linkLovers(a, b PlayerIndex) {
	if g.lovers == nil {
		g.lovers = make(map[PlayerIndex]PlayerIndex)
	}
	g.lovers[a] = b
	g.lovers[b] = a
	g.addPrivateMessages(a, ChatMessage{Kind: MsgLoveLinked, Player: ptr(b)})
	g.addPrivateMessages(b, ChatMessage{Kind: MsgLoveLinked, Player: ptr(a)})
}

// Lover returns the player p is love-linked with.
func (g *Game) Lover(p PlayerIndex) (PlayerIndex, bool) {
	other, ok := g.lovers[p]
	return other, ok
}

func loveOnAnyDeath(g *Game, ev OnAnyDeath) {
	other, ok := g.lovers[ev.Dead]
	if !ok || !g.Alive(other) {
		return
	}
	g.kill(other, g.brokenHeartGrave(other))
}
