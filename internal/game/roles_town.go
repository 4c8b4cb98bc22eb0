package game

import "slices"

type Sheriff struct{ roleBase }

func (*Sheriff) Role() Role { return RoleSheriff }

func (*Sheriff) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleSheriff, 0), false, true)}
}

func (*Sheriff) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleSheriff, 0), false)
}

func (*Sheriff) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityInvestigative {
		return
	}
	if target, ok := n.targetOf(actor, RoleController(actor, RoleSheriff, 0)); ok {
		g.pushNightMessage(actor, ChatMessage{Kind: MsgSheriffResult, Player: ptr(target), Suspicious: g.suspicious(target)})
	}
}

type Lookout struct{ roleBase }

func (*Lookout) Role() Role { return RoleLookout }

func (*Lookout) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleLookout, 0), false, true)}
}

func (*Lookout) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleLookout, 0), false)
}

func (*Lookout) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityInvestigative {
		return
	}
	target, ok := n.targetOf(actor, RoleController(actor, RoleLookout, 0))
	if !ok {
		return
	}
	var seen []PlayerIndex
	for _, v := range n.VisitorsOf(target) {
		if v != actor {
			seen = append(seen, v)
		}
	}
	g.pushNightMessage(actor, ChatMessage{Kind: MsgLookoutResult, Player: ptr(target), Players: seen})
}

type Doctor struct {
	roleBase
	SelfHealsRemaining int
}

func (*Doctor) Role() Role { return RoleDoctor }

func (d *Doctor) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleDoctor, 0), d.SelfHealsRemaining > 0, true)}
}

func (*Doctor) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleDoctor, 0), false)
}

func (d *Doctor) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityHeal {
		return
	}
	target, ok := n.targetOf(actor, RoleController(actor, RoleDoctor, 0))
	if !ok {
		return
	}
	if target == actor {
		if d.SelfHealsRemaining <= 0 {
			return
		}
		d.SelfHealsRemaining--
	}
	g.protect(target, actor)
}

// Bodyguard takes every attack aimed at its charge and strikes back at the
// attackers.
type Bodyguard struct {
	roleBase
	redirected []PlayerIndex
}

func (*Bodyguard) Role() Role { return RoleBodyguard }

func (*Bodyguard) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleBodyguard, 0), false, true)}
}

func (*Bodyguard) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleBodyguard, 0), false)
}

func (b *Bodyguard) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	switch priority {
	case PriorityTop:
		b.redirected = nil
	case PriorityBodyguard:
		target, ok := n.targetOf(actor, RoleController(actor, RoleBodyguard, 0))
		if !ok {
			return
		}
		for i := range n.visits {
			v := &n.visits[i]
			if v.Target != target || !v.Attack || v.Visitor == actor {
				continue
			}
			v.Target = actor
			if !slices.Contains(b.redirected, v.Visitor) {
				b.redirected = append(b.redirected, v.Visitor)
			}
		}
		if len(b.redirected) > 0 {
			g.pushNightMessage(target, ChatMessage{Kind: MsgYouWereProtected})
			g.pushNightMessage(actor, ChatMessage{Kind: MsgTargetWasAttacked, Player: ptr(target)})
		}
	case PriorityKill:
		for _, attacker := range b.redirected {
			g.tryNightKill(n, []PlayerIndex{actor}, attacker, roleKiller(RoleBodyguard), AttackArmorPiercing)
		}
	}
}

type Escort struct{ roleBase }

func (*Escort) Role() Role { return RoleEscort }

func (*Escort) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleEscort, 0), false, true)}
}

func (*Escort) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleEscort, 0), false)
}

func (*Escort) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityRoleblock {
		return
	}
	if target, ok := n.targetOf(actor, RoleController(actor, RoleEscort, 0)); ok {
		g.roleblock(target)
	}
}

// Transporter swaps two players: every visit aimed at one lands on the other.
type Transporter struct{ roleBase }

func (*Transporter) Role() Role { return RoleTransporter }

func (*Transporter) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{{
		ID:             RoleController(actor, RoleTransporter, 0),
		Available:      AvailableTwoPlayerOption{Players: g.AlivePlayers(), CanChooseNone: true},
		GrayedOut:      g.nightGrayedOut(actor),
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{actor},
	}}
}

func (*Transporter) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleTransporter, 0), false)
}

func (*Transporter) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityTransport {
		return
	}
	targets := n.targetsOf(actor, RoleController(actor, RoleTransporter, 0))
	if len(targets) != 2 {
		return
	}
	a, b := targets[0], targets[1]
	for i := range n.visits {
		v := &n.visits[i]
		if g.RoleOf(v.Visitor) == RoleTransporter {
			continue
		}
		switch v.Target {
		case a:
			v.Target = b
		case b:
			v.Target = a
		}
	}
	g.pushNightMessage(a, ChatMessage{Kind: MsgTransported})
	g.pushNightMessage(b, ChatMessage{Kind: MsgTransported})
}

// Veteran goes on alert to become invincible and shoot every visitor.
type Veteran struct {
	roleBase
	AlertsRemaining int
	alerting        bool
}

func (*Veteran) Role() Role { return RoleVeteran }

func (v *Veteran) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{
		nightBooleanController(g, actor, RoleController(actor, RoleVeteran, 0)).grayIf(v.AlertsRemaining <= 0),
	}
}

func (v *Veteran) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	switch priority {
	case PriorityTop:
		v.alerting = false
		if v.AlertsRemaining > 0 && g.booleanSelection(RoleController(actor, RoleVeteran, 0)) {
			v.AlertsRemaining--
			v.alerting = true
			g.upgradeDefense(actor, DefenseInvincible)
		}
	case PriorityKill:
		if !v.alerting {
			return
		}
		for _, visitor := range n.VisitorsOf(actor) {
			if visitor != actor {
				g.tryNightKill(n, []PlayerIndex{actor}, visitor, roleKiller(RoleVeteran), AttackArmorPiercing)
			}
		}
	}
}

// Vigilante shoots from night 2 on. Killing a town member makes it take its
// own life the following night.
type Vigilante struct {
	roleBase
	BulletsRemaining int
	willSuicide      bool
}

func (*Vigilante) Role() Role { return RoleVigilante }

func (v *Vigilante) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	c := nightPlayerController(g, actor, RoleController(actor, RoleVigilante, 0), false, true)
	return []ControllerParameters{c.grayIf(g.day <= 1 || v.BulletsRemaining <= 0 || v.willSuicide)}
}

func (*Vigilante) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleVigilante, 0), true)
}

func (v *Vigilante) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	switch priority {
	case PriorityTop:
		if v.willSuicide {
			v.willSuicide = false
			g.tryNightKill(n, nil, actor, GraveKiller{Kind: KillerSuicide}, AttackProtectionPiercing)
		}
	case PriorityKill:
		if v.BulletsRemaining <= 0 || g.day <= 1 {
			return
		}
		target, ok := n.targetOf(actor, RoleController(actor, RoleVigilante, 0))
		if !ok {
			return
		}
		v.BulletsRemaining--
		if g.tryNightKill(n, []PlayerIndex{actor}, target, roleKiller(RoleVigilante), AttackBasic) &&
			g.RoleOf(target).Faction() == FactionTown {
			v.willSuicide = true
		}
	}
}

const (
	jailorTargetSlot  uint8 = 0
	jailorExecuteSlot uint8 = 1
)

// Jailor picks a prisoner during the day, holds them for the night and may
// execute them.
type Jailor struct {
	roleBase
	ExecutionsRemaining int
}

func (*Jailor) Role() Role { return RoleJailor }

func (j *Jailor) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	_, jailing := g.detainedBy(actor, DetainJail)
	return []ControllerParameters{
		dayPlayerController(g, actor, RoleController(actor, RoleJailor, jailorTargetSlot)),
		nightBooleanController(g, actor, RoleController(actor, RoleJailor, jailorExecuteSlot)).
			grayIf(!jailing || j.ExecutionsRemaining <= 0 || g.day <= 1),
	}
}

func (*Jailor) OnPhaseStart(g *Game, actor PlayerIndex, ev OnPhaseStart) {
	if ev.Phase.Type != PhaseNight || !g.Alive(actor) || g.isDetained(actor) {
		return
	}
	if target, ok := g.playerSelection(RoleController(actor, RoleJailor, jailorTargetSlot)); ok && g.Alive(target) {
		g.detain(target, actor, DetainJail)
	}
}

func (j *Jailor) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	target, ok := g.detainedBy(actor, DetainJail)
	if !ok {
		return
	}
	switch priority {
	case PriorityHeal:
		g.upgradeDefense(target, DefenseProtection)
	case PriorityKill:
		if j.ExecutionsRemaining <= 0 || g.day <= 1 || !g.booleanSelection(RoleController(actor, RoleJailor, jailorExecuteSlot)) {
			return
		}
		g.tryNightKill(n, []PlayerIndex{actor}, target, roleKiller(RoleJailor), AttackProtectionPiercing)
		if g.RoleOf(target).Faction() == FactionTown {
			j.ExecutionsRemaining = 0
		} else {
			j.ExecutionsRemaining--
		}
	}
}

// Mayor may reveal once during the day. A revealed mayor's votes count three
// times and it can no longer whisper.
type Mayor struct {
	roleBase
	Revealed bool
}

func (*Mayor) Role() Role { return RoleMayor }

func (m *Mayor) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	if m.Revealed {
		return nil
	}
	return []ControllerParameters{{
		ID:             RoleController(actor, RoleMayor, 0),
		Available:      AvailableUnit{},
		GrayedOut:      !g.Alive(actor) || !g.phase.Type.IsDay(),
		DontSave:       true,
		AllowedPlayers: []PlayerIndex{actor},
	}}
}

func (m *Mayor) OnValidatedAbilityInput(g *Game, actor PlayerIndex, ev OnValidatedAbilityInputReceived) {
	if ev.Actor != actor || ev.Input.ID != RoleController(actor, RoleMayor, 0) || m.Revealed {
		return
	}
	m.Revealed = true
	g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgMayorRevealed, Player: ptr(actor)})
	g.broadcastVotes()
	g.checkNomination()
}

func (m *Mayor) OnWhisper(g *Game, actor PlayerIndex, ev OnWhisper, fold *WhisperFold, priority WhisperPriority) {
	if priority == WhisperCancel && m.Revealed && (ev.Sender == actor || ev.Receiver == actor) {
		fold.Cancelled = true
	}
}

const (
	reporterInterviewSlot uint8 = 0
	reporterPublishSlot   uint8 = 1
	reporterReportSlot    uint8 = 2
)

// Reporter interviews a player in a private night room and may publish a
// report to the whole town.
type Reporter struct{ roleBase }

func (*Reporter) Role() Role { return RoleReporter }

func (*Reporter) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{
		dayPlayerController(g, actor, RoleController(actor, RoleReporter, reporterInterviewSlot)),
		nightBooleanController(g, actor, RoleController(actor, RoleReporter, reporterPublishSlot)),
		{
			ID:             RoleController(actor, RoleReporter, reporterReportSlot),
			Available:      AvailableChatMessage{MaxLen: maxChatLength},
			GrayedOut:      !g.Alive(actor),
			AllowedPlayers: []PlayerIndex{actor},
		},
	}
}

func (*Reporter) NightChatGroups(g *Game, actor PlayerIndex) []ChatGroup {
	if g.phase.Type != PhaseNight || !g.Alive(actor) {
		return nil
	}
	if target, ok := g.playerSelection(RoleController(actor, RoleReporter, reporterInterviewSlot)); ok && g.Alive(target) {
		return []ChatGroup{ChatInterview}
	}
	return nil
}

func (*Reporter) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityInvestigative || !g.booleanSelection(RoleController(actor, RoleReporter, reporterPublishSlot)) {
		return
	}
	report, ok := g.selection(RoleController(actor, RoleReporter, reporterReportSlot)).(ChatMessageSelection)
	if !ok || report.Text == "" {
		return
	}
	for _, p := range g.Players() {
		g.pushNightMessage(p, ChatMessage{Kind: MsgReporterReport, Player: ptr(actor), Text: report.Text})
	}
}

// Bouncer wards a player: everyone else visiting them is turned away.
type Bouncer struct{ roleBase }

func (*Bouncer) Role() Role { return RoleBouncer }

func (*Bouncer) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	return []ControllerParameters{nightPlayerController(g, actor, RoleController(actor, RoleBouncer, 0), true, true)}
}

func (*Bouncer) ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit {
	return visitsFromSelection(g, actor, RoleController(actor, RoleBouncer, 0), false)
}

func (*Bouncer) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityRoleblock {
		return
	}
	target, ok := n.targetOf(actor, RoleController(actor, RoleBouncer, 0))
	if !ok {
		return
	}
	g.player(target).night.Warded = true
	g.upgradeDefense(actor, DefenseArmor)
	for _, visitor := range n.VisitorsOf(target) {
		if visitor != actor {
			g.roleblock(visitor)
		}
	}
}

// Auditor picks up to two entries of the role list and learns the role each
// one produced, hidden among a decoy from the same entry.
type Auditor struct {
	roleBase
	audited []int
}

func (*Auditor) Role() Role { return RoleAuditor }

func (a *Auditor) Controllers(g *Game, actor PlayerIndex) []ControllerParameters {
	var outlines []int
	for i := range g.settings.RoleList {
		if !slices.Contains(a.audited, i) {
			outlines = append(outlines, i)
		}
	}
	return []ControllerParameters{{
		ID:             RoleController(actor, RoleAuditor, 0),
		Available:      AvailableTwoRoleOutlineOption{Outlines: outlines, CanChooseNone: true},
		GrayedOut:      g.nightGrayedOut(actor),
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{actor},
	}}
}

func (a *Auditor) OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority) {
	if priority != PriorityInvestigative {
		return
	}
	sel, ok := g.selection(RoleController(actor, RoleAuditor, 0)).(TwoRoleOutlineOption)
	if !ok {
		return
	}
	for _, idx := range sel.indices() {
		if idx < 0 || idx >= len(g.outlinePlayers) || slices.Contains(a.audited, idx) {
			continue
		}
		a.audited = append(a.audited, idx)
		g.pushNightMessage(actor, ChatMessage{Kind: MsgAuditorResult, Count: idx, Roles: g.auditOutline(idx)})
	}
}

// auditOutline returns the true role of the outline's player and, when the
// outline allows more than one role, a decoy, in random order.
func (g *Game) auditOutline(idx int) []Role {
	truth := g.RoleOf(g.outlinePlayers[idx])
	var decoys []Role
	for _, r := range g.settings.RoleList[idx].Candidates() {
		if r != truth {
			decoys = append(decoys, r)
		}
	}
	if len(decoys) == 0 {
		return []Role{truth}
	}
	decoy := decoys[g.rng.IntN(len(decoys))]
	if g.rng.IntN(2) == 0 {
		return []Role{truth, decoy}
	}
	return []Role{decoy, truth}
}
