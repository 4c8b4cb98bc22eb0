package game

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// ChatGroup is an audience for chat messages. Membership is computed from
// player state whenever it is needed.
type ChatGroup uint8

const (
	ChatAll ChatGroup = iota + 1
	ChatDead
	ChatMafia
	ChatCult
	ChatJail
	ChatKidnapped
	ChatInterview
	ChatPuppeteer
)

var chatGroupNames = map[ChatGroup]string{
	ChatAll:       "all",
	ChatDead:      "dead",
	ChatMafia:     "mafia",
	ChatCult:      "cult",
	ChatJail:      "jail",
	ChatKidnapped: "kidnapped",
	ChatInterview: "interview",
	ChatPuppeteer: "puppeteer",
}

func (c ChatGroup) String() string {
	if name, ok := chatGroupNames[c]; ok {
		return name
	}
	return "unknown"
}

func (c ChatGroup) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// AllChatGroups returns every chat group in declaration order.
func AllChatGroups() []ChatGroup {
	return []ChatGroup{ChatAll, ChatDead, ChatMafia, ChatCult, ChatJail, ChatKidnapped, ChatInterview, ChatPuppeteer}
}

const (
	maxChatLength = 400
	maxWillLength = 600
)

// ReceivesFrom reports whether p currently reads messages sent to group.
func (g *Game) ReceivesFrom(group ChatGroup, p PlayerIndex) bool {
	alive := g.Alive(p)
	switch group {
	case ChatAll:
		return true
	case ChatDead:
		return !alive
	case ChatMafia:
		return alive && g.InInsiderGroup(InsiderMafia, p)
	case ChatCult:
		return alive && g.InInsiderGroup(InsiderCult, p)
	case ChatPuppeteer:
		return alive && g.InInsiderGroup(InsiderPuppeteer, p)
	case ChatJail, ChatKidnapped, ChatInterview:
		return alive && slices.Contains(g.roomMembers(group), p)
	}
	return false
}

// ReceiveGroups lists the groups p currently reads.
func (g *Game) ReceiveGroups(p PlayerIndex) []ChatGroup {
	var out []ChatGroup
	for _, group := range AllChatGroups() {
		if g.ReceivesFrom(group, p) {
			out = append(out, group)
		}
	}
	return out
}

// roomMembers returns the participants of a night room. Rooms only exist
// at night.
func (g *Game) roomMembers(group ChatGroup) []PlayerIndex {
	if g.phase.Type != PhaseNight {
		return nil
	}
	var out []PlayerIndex
	switch group {
	case ChatJail, ChatKidnapped:
		kind := DetainJail
		if group == ChatKidnapped {
			kind = DetainKidnap
		}
		for _, d := range g.detained {
			if d.Kind == kind {
				out = append(out, d.By, d.Player)
			}
		}
	case ChatInterview:
		for _, p := range g.AlivePlayers() {
			if !slices.Contains(g.RoleState(p).NightChatGroups(g, p), ChatInterview) {
				continue
			}
			if target, ok := g.playerSelection(RoleController(p, RoleReporter, reporterInterviewSlot)); ok {
				out = append(out, p, target)
			}
		}
	}
	return out
}

// SendGroups lists the groups p may currently write to.
func (g *Game) SendGroups(p PlayerIndex) []ChatGroup {
	if g.ModifierEnabled(ModifierNoChat) {
		return nil
	}
	if !g.Alive(p) {
		if g.ModifierEnabled(ModifierDeadCanChat) {
			return []ChatGroup{ChatDead, ChatAll}
		}
		return []ChatGroup{ChatDead}
	}
	if d, ok := g.detention(p); ok && g.phase.Type == PhaseNight && d.Player == p {
		return []ChatGroup{d.Kind.chatGroup()}
	}

	switch g.phase.Type {
	case PhaseBriefing, PhaseObituary:
		return nil
	case PhaseTestimony:
		if g.phase.PlayerOnTrial == p {
			return []ChatGroup{ChatAll}
		}
		return nil
	case PhaseNight:
		if g.ModifierEnabled(ModifierNoNightChat) {
			return nil
		}
		var out []ChatGroup
		for _, group := range AllInsiderGroups() {
			if g.InInsiderGroup(group, p) {
				out = append(out, group.ChatGroup())
			}
		}
		for _, d := range g.detained {
			if d.By == p {
				out = append(out, d.Kind.chatGroup())
			}
		}
		for _, group := range g.RoleState(p).NightChatGroups(g, p) {
			if !slices.Contains(out, group) {
				out = append(out, group)
			}
		}
		return out
	}
	return []ChatGroup{ChatAll}
}

// addMessageToGroup delivers msg to every current receiver of group.
func (g *Game) addMessageToGroup(group ChatGroup, msg ChatMessage) {
	msg.Group = group
	for _, p := range g.Players() {
		if g.ReceivesFrom(group, p) {
			g.addPrivateMessages(p, msg)
		}
	}
}

func (g *Game) addPrivateMessages(p PlayerIndex, msgs ...ChatMessage) {
	pl := g.player(p)
	pl.messages = append(pl.messages, msgs...)
	g.send(p, ChatMessagesPacket{Messages: msgs})
}

// sendChat posts text from p to every group p may write to.
func (g *Game) sendChat(p PlayerIndex, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return rejectf("empty message")
	}
	if utf8.RuneCountInString(text) > maxChatLength {
		return rejectf("message longer than %d characters", maxChatLength)
	}
	groups := g.SendGroups(p)
	if len(groups) == 0 {
		return rejectf("player %d cannot chat now", p)
	}
	for _, group := range groups {
		g.addMessageToGroup(group, ChatMessage{Kind: MsgNormal, Sender: ptr(p), Text: text})
	}
	return nil
}

// notifyChatGroups pushes p's receive and send groups when they changed
// since the last notice.
func (g *Game) notifyChatGroups(p PlayerIndex) {
	receive, send := g.ReceiveGroups(p), g.SendGroups(p)
	pl := g.player(p)
	if slices.Equal(receive, pl.sentReceive) && slices.Equal(send, pl.sentSend) {
		return
	}
	pl.sentReceive, pl.sentSend = receive, send
	g.send(p, ChatGroupsPacket{Receive: receive, Send: send})
}

func (g *Game) notifyAllChatGroups() {
	for _, p := range g.Players() {
		g.notifyChatGroups(p)
	}
}

func chatGroupsOnPhaseStart(g *Game, _ OnPhaseStart)        { g.notifyAllChatGroups() }
func chatGroupsOnAnyDeath(g *Game, _ OnAnyDeath)            { g.notifyAllChatGroups() }
func chatGroupsOnRoleSwitch(g *Game, ev OnRoleSwitch)       { g.notifyChatGroups(ev.Player) }
func chatGroupsOnAddInsider(g *Game, ev OnAddInsider)       { g.notifyChatGroups(ev.Player) }
func chatGroupsOnRemoveInsider(g *Game, ev OnRemoveInsider) { g.notifyChatGroups(ev.Player) }
