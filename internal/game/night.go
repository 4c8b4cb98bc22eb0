package game

import "slices"

// NightVars is the transient per-player state of one night. It is reset when
// the next night is resolved and stays readable until then.
type NightVars struct {
	Blocked         bool
	Attacked        bool
	Died            bool
	Warded          bool
	UpgradedDefense DefensePower
	Messages        []ChatMessage

	// Guards lists the players protecting this player tonight, in the
	// order they applied their protection.
	Guards []PlayerIndex

	// GraveRole overrides the role shown on the grave when set.
	GraveRole    *GraveRole
	GraveKillers []GraveKiller
	WillCleaned  bool

	// ConvertRole is applied after the sweep when the player survives.
	ConvertRole Role
}

// NightState returns the player's state from the most recently resolved
// night.
func (g *Game) NightState(p PlayerIndex) NightVars {
	return g.player(p).night
}

// Night is the fold value of the midnight sweep.
type Night struct {
	visits []Visit
	deaths []PlayerIndex

	// defense captured when the Kill priority starts
	snapshot []DefensePower
}

// Visits returns a copy of every visit of the night.
func (n *Night) Visits() []Visit {
	return slices.Clone(n.visits)
}

// VisitsBy returns the visits made by p.
func (n *Night) VisitsBy(p PlayerIndex) []Visit {
	var out []Visit
	for _, v := range n.visits {
		if v.Visitor == p {
			out = append(out, v)
		}
	}
	return out
}

// VisitorsOf returns the distinct players visiting p, in ascending order.
func (n *Night) VisitorsOf(p PlayerIndex) []PlayerIndex {
	var out []PlayerIndex
	for _, v := range n.visits {
		if v.Target == p && !slices.Contains(out, v.Visitor) {
			out = append(out, v.Visitor)
		}
	}
	slices.Sort(out)
	return out
}

// Deaths returns the players killed tonight, in the order their deaths were
// scheduled.
func (n *Night) Deaths() []PlayerIndex {
	return slices.Clone(n.deaths)
}

func (n *Night) addVisit(v Visit) {
	n.visits = append(n.visits, v)
}

// targetOf returns the current target of the actor's first visit from id.
func (n *Night) targetOf(actor PlayerIndex, id ControllerID) (PlayerIndex, bool) {
	for _, v := range n.visits {
		if v.Visitor == actor && v.Origin == id {
			return v.Target, true
		}
	}
	return 0, false
}

// targetsOf returns the current targets of every visit the actor made from id.
func (n *Night) targetsOf(actor PlayerIndex, id ControllerID) []PlayerIndex {
	var out []PlayerIndex
	for _, v := range n.visits {
		if v.Visitor == actor && v.Origin == id {
			out = append(out, v.Target)
		}
	}
	return out
}

// LastNight returns the most recently resolved night, or nil before the
// first one.
func (g *Game) LastNight() *Night {
	return g.lastNight
}

func nightResolution(g *Game, ev BeforePhaseEnd) {
	if ev.Phase.Type != PhaseNight {
		return
	}
	g.resolveNight()
}

// resolveNight collects visits, sweeps every priority and then applies the
// night's deaths in the order they were scheduled.
func (g *Game) resolveNight() {
	for i := range g.players {
		g.players[i].night = NightVars{}
		g.players[i].tags &^= TagFramed
	}

	var n Night
	for _, p := range g.Players() {
		if g.isDetained(p) {
			continue
		}
		n.visits = append(n.visits, g.RoleState(p).ConvertSelectionToVisits(g, p)...)
	}

	n = OnMidnight{}.Invoke(g, n)
	g.lastNight = &n
	g.nightPending = true

	g.deferWin = true
	for _, p := range g.Players() {
		pl := g.player(p)
		if pl.night.ConvertRole != RoleNone && pl.alive && !pl.night.Died {
			g.setRole(p, pl.night.ConvertRole)
		}
	}

	for _, p := range n.deaths {
		g.kill(p, g.nightGrave(p))
	}
	g.deferWin = false
	g.checkWin()
}

func nightCore(g *Game, _ OnMidnight, n *Night, priority Priority) {
	if priority != PriorityKill {
		return
	}
	n.snapshot = make([]DefensePower, g.PlayerCount())
	for _, p := range g.Players() {
		n.snapshot[p] = g.Defense(p)
	}
}

func rolesOnMidnight(g *Game, _ OnMidnight, n *Night, priority Priority) {
	for _, p := range g.Players() {
		if g.isDetained(p) {
			continue
		}
		rs := g.RoleState(p)
		info := rs.Role().Info()
		if !g.Alive(p) && !info.ActsWhenDead {
			continue
		}
		if priority > PriorityRoleblock && g.player(p).night.Blocked && !info.RoleblockImmune {
			continue
		}
		rs.OnMidnight(g, n, p, priority)
	}
}

// nightDefense is the defense an attack is compared against: the snapshot
// taken at the start of the Kill priority, or live defense before it.
func (g *Game) nightDefense(n *Night, p PlayerIndex) DefensePower {
	if n.snapshot != nil {
		return n.snapshot[p]
	}
	return g.Defense(p)
}

// tryNightKill attacks target on behalf of attackers. Any single piercing
// attack is enough; a target already killed tonight only gains a killer.
func (g *Game) tryNightKill(n *Night, attackers []PlayerIndex, target PlayerIndex, killer GraveKiller, power AttackPower) bool {
	pl := g.player(target)
	pl.night.Attacked = true

	if !power.Pierces(g.nightDefense(n, target)) {
		g.pushNightMessage(target, ChatMessage{Kind: MsgYouSurvivedAttack})
		for _, a := range attackers {
			g.pushNightMessage(a, ChatMessage{Kind: MsgTargetSurvivedAttack, Player: ptr(target)})
		}
		for _, guard := range pl.night.Guards {
			g.pushNightMessage(guard, ChatMessage{Kind: MsgTargetWasAttacked, Player: ptr(target)})
			g.pushNightMessage(target, ChatMessage{Kind: MsgYouWereProtected})
		}
		return false
	}

	pl.night.GraveKillers = append(pl.night.GraveKillers, killer)
	if !pl.night.Died {
		pl.night.Died = true
		n.deaths = append(n.deaths, target)
		g.pushNightMessage(target, ChatMessage{Kind: MsgYouDied})
	}
	return true
}

// roleblock blocks p for the rest of the night unless p's role is immune.
func (g *Game) roleblock(p PlayerIndex) {
	if g.RoleOf(p).Info().RoleblockImmune {
		g.pushNightMessage(p, ChatMessage{Kind: MsgRoleblockImmune})
		return
	}
	pl := g.player(p)
	if !pl.night.Blocked {
		pl.night.Blocked = true
		g.pushNightMessage(p, ChatMessage{Kind: MsgRoleblocked})
	}
}

// protect raises p to Protection tonight and records guard as its guard.
func (g *Game) protect(p, guard PlayerIndex) {
	pl := g.player(p)
	pl.night.UpgradedDefense = maxDefense(pl.night.UpgradedDefense, DefenseProtection)
	pl.night.Guards = append(pl.night.Guards, guard)
}

func (g *Game) upgradeDefense(p PlayerIndex, d DefensePower) {
	pl := g.player(p)
	pl.night.UpgradedDefense = maxDefense(pl.night.UpgradedDefense, d)
}

func (g *Game) pushNightMessage(p PlayerIndex, msg ChatMessage) {
	pl := g.player(p)
	pl.night.Messages = append(pl.night.Messages, msg)
}

// deliverNightMessages hands every player their private night results when
// the Obituary begins.
func deliverNightMessages(g *Game, ev OnPhaseStart) {
	if ev.Phase.Type != PhaseObituary {
		return
	}
	g.flushNightMessages()
}

// nightMessagesOnGameEnding delivers the results of a night whose deaths
// ended the game. The Obituary that would carry them never starts.
func nightMessagesOnGameEnding(g *Game, _ OnGameEnding) {
	g.flushNightMessages()
}

// flushNightMessages delivers the last resolved night's messages once.
func (g *Game) flushNightMessages() {
	if !g.nightPending {
		return
	}
	g.nightPending = false
	for _, p := range g.Players() {
		if msgs := g.player(p).night.Messages; len(msgs) > 0 {
			g.addPrivateMessages(p, msgs...)
		}
	}
}
