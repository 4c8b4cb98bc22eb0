package game

import "slices"

// Apostle leads the cult. On convert nights it turns its target into a
// zealot; when it is the last cultist it may also kill on kill nights.
type Apostle struct{ roleBase }

func (*Apostle) Role() Role { return RoleApostle }

func (*Apostle) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	c := nightPlayerController(g, actor, RoleController(actor, RoleApostle, 0), false, false)
	return []ControllerParameters{c.grayIf(g.cult.next == CultKill && len(g.cultMembers()) > 1)}
}

func (*Apostle) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleApostle, 0), g.cult.next == CultKill)
}

func (*Apostle) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	target, ok := n.targetOf(actor, RoleController(actor, RoleApostle, 0))
	if !ok {
		return
	}
	switch {
	case priority == PriorityKill && g.cult.next == CultKill:
		if len(g.cultMembers()) > 1 {
			return
		}
		g.cultUsed(CultKill)
		g.tryNightKill(n, []PlayerIndex{actor}, target, GraveKiller{Kind: KillerCult}, AttackBasic)
	case priority == PriorityConvert && g.cult.next == CultConvert:
		g.cultUsed(CultConvert)
		pl := g.player(target)
		if pl.night.Died || g.nightDefense(n, target).Blocks(AttackBasic) {
			g.pushNightMessage(actor, ChatMessage{Kind: MsgConvertFailed, Player: ptr(target)})
			return
		}
		pl.night.ConvertRole = RoleZealot
		g.pushNightMessage(target, ChatMessage{Kind: MsgConverted, Role: RoleZealot})
	}
}

// Zealot carries out the cult's kill on kill nights.
type Zealot struct{ roleBase }

func (*Zealot) Role() Role { return RoleZealot }

func (*Zealot) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	c := nightPlayerController(g, actor, RoleController(actor, RoleZealot, 0), false, false)
	return []ControllerParameters{c.grayIf(g.cult.next != CultKill)}
}

func (*Zealot) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	if g.cult.next != CultKill {
		return nil
	}
	return visitsFromSelection(g, actor, RoleController(actor, RoleZealot, 0), true)
}

func (*Zealot) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityKill || g.cult.next != CultKill {
		return
	}
	if target, ok := n.targetOf(actor, RoleController(actor, RoleZealot, 0)); ok {
		g.cultUsed(CultKill)
		g.tryNightKill(n, []PlayerIndex{actor}, target, GraveKiller{Kind: KillerCult}, AttackBasic)
	}
}

// Jester wins by being lynched, then haunts one of the players who voted
// guilty on the following night.
type Jester struct {
	roleBase
	won      bool
	haunting bool
}

func (*Jester) Role() Role { return RoleJester }

func (j *Jester) Won() bool { return j.won }

// hauntCandidates are the living guilty voters of the Jester's trial. A
// trial without a Judgement (auto_guilty) records no voters, so every
// living player is a candidate instead.
func (j *Jester) hauntCandidates(g *Game, actor PlayerIndex) []PlayerIndex {
	voters := g.VerdictsToday()
	if len(voters) == 0 {
		voters = g.AlivePlayers()
	}
	var out []PlayerIndex
	for _, p := range voters {
		if p != actor && g.Alive(p) {
			out = append(out, p)
		}
	}
	return out
}

func (j *Jester) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	if !j.haunting {
		return nil
	}
	return []ControllerParameters{{
		ID:             RoleController(actor, RoleJester, 0),
		Available:      AvailablePlayerOption{Players: j.hauntCandidates(g, actor), CanChooseNone: true},
		GrayedOut:      g.phase.Type != PhaseNight,
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{actor},
	}}
}

func (j *Jester) OnGraveAdded(g *Game, actor PlayerIndex, ev OnGraveAdded) {
	if ev.Grave.Player != actor || ev.Grave.DeathCause.Kind != DeathCauseLynching {
		return
	}
	j.won = true
	j.haunting = true
	g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgJesterWon, Player: ptr(actor)})
}

func (j *Jester) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityKill || !j.haunting {
		return
	}
	j.haunting = false
	candidates := j.hauntCandidates(g, actor)
	if len(candidates) == 0 {
		return
	}
	target, ok := g.playerSelection(RoleController(actor, RoleJester, 0))
	if !ok || !slices.Contains(candidates, target) {
		target = candidates[g.rng.IntN(len(candidates))]
	}
	g.tryNightKill(n, nil, target, roleKiller(RoleJester), AttackProtectionPiercing)
}

// Amnesiac remembers the role of a dead player and becomes it.
type Amnesiac struct{ roleBase }

func (*Amnesiac) Role() Role { return RoleAmnesiac }

func (*Amnesiac) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	var roles []Role
	for _, grave := range g.graves {
		if grave.Role.Kind == GraveRoleRole && grave.Role.Role != RoleAmnesiac && !slices.Contains(roles, grave.Role.Role) {
			roles = append(roles, grave.Role.Role)
		}
	}
	slices.Sort(roles)
	return []ControllerParameters{{
		ID:             RoleController(actor, RoleAmnesiac, 0),
		Available:      AvailableRoleOption{Roles: roles, CanChooseNone: true},
		GrayedOut:      g.nightGrayedOut(actor),
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{actor},
	}}
}

func (*Amnesiac) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityConvert {
		return
	}
	opt, ok := g.selection(RoleController(actor, RoleAmnesiac, 0)).(RoleOption)
	if !ok || opt.Role == RoleNone {
		return
	}
	g.player(actor).night.ConvertRole = opt.Role
}

// Arsonist douses players over several nights and ignites them all at once
// by selecting itself.
type Arsonist struct{ roleBase }

func (*Arsonist) Role() Role { return RoleArsonist }

func (*Arsonist) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleArsonist, 0), true, true)}
}

func (*Arsonist) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleArsonist, 0), false)
}

func (*Arsonist) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	target, ok := n.targetOf(actor, RoleController(actor, RoleArsonist, 0))
	if !ok {
		return
	}
	switch priority {
	case PriorityDeception:
		if target == actor {
			return
		}
		g.addTag(target, TagDoused)
		for _, visitor := range n.VisitorsOf(actor) {
			if visitor != actor {
				g.addTag(visitor, TagDoused)
			}
		}
	case PriorityKill:
		if target != actor {
			return
		}
		for _, p := range g.AlivePlayers() {
			if !g.HasTag(p, TagDoused) {
				continue
			}
			g.removeTag(p, TagDoused)
			g.tryNightKill(n, []PlayerIndex{actor}, p, roleKiller(RoleArsonist), AttackProtectionPiercing)
		}
	}
}

const (
	puppeteerTargetSlot uint8 = 0
	puppeteerModeSlot   uint8 = 1
)

// Puppeteer either attacks its target or, while it has marionettes left,
// ties the target to the fiends.
type Puppeteer struct {
	roleBase
	MarionettesRemaining int
}

func (*Puppeteer) Role() Role { return RolePuppeteer }

func (p *Puppeteer) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	maxMode := 0
	if p.MarionettesRemaining > 0 {
		maxMode = 1
	}
	return []ControllerParameters{
		nightPlayerController(g, actor, RoleController(actor, RolePuppeteer, puppeteerTargetSlot), false, false),
		{
			ID:             RoleController(actor, RolePuppeteer, puppeteerModeSlot),
			Available:      AvailableInteger{Min: 0, Max: maxMode},
			GrayedOut:      g.nightGrayedOut(actor),
			AllowedPlayers: []PlayerIndex{actor},
		},
	}
}

func (p *Puppeteer) marionetteMode(g *Game, actor PlayerIndex) bool {
	mode, ok := g.selection(RoleController(actor, RolePuppeteer, puppeteerModeSlot)).(IntegerSelection)
	return ok && mode.Value == 1 && p.MarionettesRemaining > 0
}

func (p *Puppeteer) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RolePuppeteer, puppeteerTargetSlot), !p.marionetteMode(g, actor))
}

func (p *Puppeteer) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	target, ok := n.targetOf(actor, RoleController(actor, RolePuppeteer, puppeteerTargetSlot))
	if !ok {
		return
	}
	marionette := p.marionetteMode(g, actor)
	switch {
	case priority == PriorityKill && !marionette:
		g.tryNightKill(n, []PlayerIndex{actor}, target, roleKiller(RolePuppeteer), AttackBasic)
	case priority == PriorityConvert && marionette:
		pl := g.player(target)
		if !pl.alive || pl.night.Died {
			return
		}
		p.MarionettesRemaining--
		pl.winCondition = WinIfAny(ConclusionFiends)
		g.addInsider(InsiderPuppeteer, target)
		g.pushNightMessage(target, ChatMessage{Kind: MsgMarionette, Player: ptr(actor)})
	}
}
