package game

type Godfather struct{ roleBase }

func (*Godfather) Role() Role { return RoleGodfather }

func (*Godfather) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleGodfather, 0), false, false)}
}

func (*Godfather) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleGodfather, 0), true)
}

func (*Godfather) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	mafiaKill(g, n, actor, RoleController(actor, RoleGodfather, 0), priority)
}

type Mafioso struct{ roleBase }

func (*Mafioso) Role() Role { return RoleMafioso }

func (*Mafioso) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleMafioso, 0), false, false)}
}

func (*Mafioso) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleMafioso, 0), true)
}

func (*Mafioso) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	mafiaKill(g, n, actor, RoleController(actor, RoleMafioso, 0), priority)
}

func mafiaKill(g *Game, n *Night, actor PlayerIndex, id ControllerID, priority Priority) {
	if priority != PriorityKill {
		return
	}
	if target, ok := n.targetOf(actor, id); ok {
		g.tryNightKill(n, []PlayerIndex{actor}, target, GraveKiller{Kind: KillerMafia}, AttackBasic)
	}
}

type Consort struct{ roleBase }

func (*Consort) Role() Role { return RoleConsort }

func (*Consort) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleConsort, 0), false, false)}
}

func (*Consort) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleConsort, 0), false)
}

func (*Consort) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityRoleblock {
		return
	}
	if target, ok := n.targetOf(actor, RoleController(actor, RoleConsort, 0)); ok {
		g.roleblock(target)
	}
}

// Framer makes its target read as suspicious to investigations tonight.
type Framer struct{ roleBase }

func (*Framer) Role() Role { return RoleFramer }

func (*Framer) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleFramer, 0), false, false)}
}

func (*Framer) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleFramer, 0), false)
}

func (*Framer) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityDeception {
		return
	}
	if target, ok := n.targetOf(actor, RoleController(actor, RoleFramer, 0)); ok {
		g.addTag(target, TagFramed)
	}
}

// Janitor hides the role and will of a player who dies tonight, and learns
// them itself.
type Janitor struct {
	roleBase
	CleansRemaining int
}

func (*Janitor) Role() Role { return RoleJanitor }

func (j *Janitor) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	c := nightPlayerController(g, actor, RoleController(actor, RoleJanitor, 0), false, false)
	return []ControllerParameters{c.grayIf(j.CleansRemaining <= 0)}
}

func (*Janitor) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleJanitor, 0), false)
}

func (j *Janitor) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityCleanup || j.CleansRemaining <= 0 {
		return
	}
	target, ok := n.targetOf(actor, RoleController(actor, RoleJanitor, 0))
	if !ok {
		return
	}
	pl := g.player(target)
	if !pl.night.Died {
		return
	}
	j.CleansRemaining--
	pl.night.GraveRole = &GraveRole{Kind: GraveRoleCleaned}
	pl.night.WillCleaned = true
	g.pushNightMessage(actor, ChatMessage{Kind: MsgJanitorResult, Player: ptr(target), Role: g.RoleOf(target), Text: pl.will})
}

// Kidnapper holds a player for the night like a jailor, without the option
// to execute or protect them.
type Kidnapper struct{ roleBase }

func (*Kidnapper) Role() Role { return RoleKidnapper }

func (*Kidnapper) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{dayPlayerController(g, actor, RoleController(actor, RoleKidnapper, 0))}
}

func (*Kidnapper) OnPhaseStart(g *Game, actor PlayerIndex, ev OnPhaseStart) {
	if ev.Phase.Type != PhaseNight || !g.Alive(actor) || g.isDetained(actor) {
		return
	}
	if target, ok := g.playerSelection(RoleController(actor, RoleKidnapper, 0)); ok && g.Alive(target) {
		g.detain(target, actor, DetainKidnap)
	}
}
