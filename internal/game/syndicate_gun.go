package game

// The syndicate gun is a single weapon held by one living mafia insider. The
// holder may shoot at night or hand it to another insider during the day.
type syndicateGun struct {
	holder *PlayerIndex
}

// GunHolder returns the current holder of the syndicate gun.
func (g *Game) GunHolder() (PlayerIndex, bool) {
	if g.gun.holder == nil {
		return 0, false
	}
	return *g.gun.holder, true
}

func isMafiaKiller(r Role) bool {
	return r == RoleGodfather || r == RoleMafioso
}

// nextGunHolder prefers the lowest-index living insider whose role cannot
// already kill.
func (g *Game) nextGunHolder() (PlayerIndex, bool) {
	var fallback *PlayerIndex
	for _, p := range g.Insiders(InsiderMafia) {
		if !g.Alive(p) {
			continue
		}
		if !isMafiaKiller(g.RoleOf(p)) {
			return p, true
		}
		if fallback == nil {
			fallback = ptr(p)
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return 0, false
}

func (g *Game) giveGun(to PlayerIndex) {
	g.gun.holder = ptr(to)
	g.addPrivateMessages(to, ChatMessage{Kind: MsgGunReceived})
}

func (g *Game) passGun() {
	g.gun.holder = nil
	if next, ok := g.nextGunHolder(); ok {
		g.giveGun(next)
	}
}

func gunOnGameStart(g *Game, _ OnGameStart) {
	if p, ok := g.nextGunHolder(); ok {
		g.giveGun(p)
	}
}

func gunControllers(g *Game, p PlayerIndex) []ControllerParameters {
	holder, ok := g.GunHolder()
	if !ok || holder != p || !g.Alive(p) {
		return nil
	}
	shoot := nightPlayerController(g, p, SyndicateGunShootController(p), false, false)

	var insiders []PlayerIndex
	for _, other := range g.Insiders(InsiderMafia) {
		if other != p && g.Alive(other) {
			insiders = append(insiders, other)
		}
	}
	give := ControllerParameters{
		ID:             SyndicateGunGiveController(p),
		Available:      AvailablePlayerOption{Players: insiders},
		GrayedOut:      !g.phase.Type.IsDay(),
		DontSave:       true,
		AllowedPlayers: []PlayerIndex{p},
	}
	return []ControllerParameters{shoot, give}
}

func gunOnValidatedInput(g *Game, ev OnValidatedAbilityInputReceived) {
	if ev.Input.ID.Kind != ControllerSyndicateGunGive {
		return
	}
	opt, ok := ev.Input.Selection.(PlayerOption)
	if !ok || opt.Player == nil {
		return
	}
	g.addPrivateMessages(ev.Actor, ChatMessage{Kind: MsgGunGiven, Player: opt.Player})
	g.giveGun(*opt.Player)
}

func gunOnPhaseStart(g *Game, _ OnPhaseStart) {
	if holder, ok := g.GunHolder(); ok && !g.Alive(holder) {
		g.passGun()
	}
}

func gunOnAnyDeath(g *Game, ev OnAnyDeath) {
	if holder, ok := g.GunHolder(); ok && holder == ev.Dead {
		g.passGun()
	}
}

func gunOnRemoveInsider(g *Game, ev OnRemoveInsider) {
	if ev.Group != InsiderMafia {
		return
	}
	if holder, ok := g.GunHolder(); ok && holder == ev.Player {
		g.passGun()
	}
}

func gunOnMidnight(g *Game, _ OnMidnight, n *Night, priority Priority) {
	holder, ok := g.GunHolder()
	if !ok || !g.Alive(holder) || g.isDetained(holder) {
		return
	}
	id := SyndicateGunShootController(holder)
	switch priority {
	case PriorityTop:
		for _, v := range visitsFromSelection(g, holder, id, true) {
			n.addVisit(v)
		}
	case PriorityKill:
		if g.player(holder).night.Blocked {
			return
		}
		if target, ok := n.targetOf(holder, id); ok {
			g.tryNightKill(n, []PlayerIndex{holder}, target, GraveKiller{Kind: KillerMafia}, AttackBasic)
		}
	}
}
