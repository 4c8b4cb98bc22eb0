package game

import "slices"

// InsiderGroup is a set of players who know each other's roles and share a
// night chat.
type InsiderGroup uint8

const (
	InsiderMafia InsiderGroup = iota
	InsiderCult
	InsiderPuppeteer
	insiderGroupCount
)

func AllInsiderGroups() []InsiderGroup {
	return []InsiderGroup{InsiderMafia, InsiderCult, InsiderPuppeteer}
}

func (ig InsiderGroup) String() string {
	return ig.ChatGroup().String()
}

func (ig InsiderGroup) MarshalText() ([]byte, error) {
	return []byte(ig.String()), nil
}

// ChatGroup returns the chat group shared by the insiders.
func (ig InsiderGroup) ChatGroup() ChatGroup {
	switch ig {
	case InsiderMafia:
		return ChatMafia
	case InsiderCult:
		return ChatCult
	case InsiderPuppeteer:
		return ChatPuppeteer
	}
	return 0
}

// InInsiderGroup reports whether p belongs to group.
func (g *Game) InInsiderGroup(group InsiderGroup, p PlayerIndex) bool {
	g.player(p)
	return g.insiders[group][p]
}

// Insiders returns the members of group in ascending order.
func (g *Game) Insiders(group InsiderGroup) []PlayerIndex {
	var out []PlayerIndex
	for _, p := range g.Players() {
		if g.insiders[group][p] {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) sharesInsiderGroup(a, b PlayerIndex) bool {
	for _, group := range AllInsiderGroups() {
		if g.InInsiderGroup(group, a) && g.InInsiderGroup(group, b) {
			return true
		}
	}
	return false
}

func (g *Game) addInsider(group InsiderGroup, p PlayerIndex) {
	if g.InInsiderGroup(group, p) {
		return
	}
	g.insiders[group][p] = true
	OnAddInsider{Player: p, Group: group}.Invoke(g)
}

func (g *Game) removeInsider(group InsiderGroup, p PlayerIndex) {
	if !g.InInsiderGroup(group, p) {
		return
	}
	g.insiders[group][p] = false
	OnRemoveInsider{Player: p, Group: group}.Invoke(g)
}

func insidersOnGameStart(g *Game, _ OnGameStart) {
	for _, p := range g.Players() {
		for _, group := range g.RoleOf(p).Info().Groups {
			g.addInsider(group, p)
		}
	}
}

// insidersOnRoleSwitch moves the player from the old role's default groups
// to the new role's.
func insidersOnRoleSwitch(g *Game, ev OnRoleSwitch) {
	newGroups := ev.New.Info().Groups
	for _, group := range ev.Old.Info().Groups {
		if !slices.Contains(newGroups, group) {
			g.removeInsider(group, ev.Player)
		}
	}
	for _, group := range newGroups {
		g.addInsider(group, ev.Player)
	}
}

func insidersRevealOnAdd(g *Game, ev OnAddInsider)       { g.revealInsiders(ev.Group) }
func insidersRevealOnRemove(g *Game, ev OnRemoveInsider) { g.revealInsiders(ev.Group) }

// revealInsiders tells every member of group the roles of the others.
func (g *Game) revealInsiders(group InsiderGroup) {
	members := g.Insiders(group)
	roles := make(map[PlayerIndex]Role, len(members))
	for _, p := range members {
		roles[p] = g.RoleOf(p)
	}
	for _, p := range members {
		g.send(p, InsiderRolesPacket{Group: group, Roles: roles})
	}
}

func rolePacketOnRoleSwitch(g *Game, ev OnRoleSwitch) {
	g.send(ev.Player, RolePacket{Role: ev.New})
	g.addPrivateMessages(ev.Player, ChatMessage{Kind: MsgRoleChanged, Role: ev.New})
	for _, group := range AllInsiderGroups() {
		if g.InInsiderGroup(group, ev.Player) {
			g.revealInsiders(group)
		}
	}
}
