package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_SendGroupsByPhase(t *testing.T) {
	g, _ := newTestGame(t, RoleMafioso, RoleConsort, RoleSheriff, RoleDoctor, RoleLookout, RoleEscort)

	assert.Empty(t, g.SendGroups(2), "nobody talks during the briefing")

	advanceTo(t, g, PhaseDiscussion)
	assert.Equal(t, []ChatGroup{ChatAll}, g.SendGroups(0))
	assert.Equal(t, []ChatGroup{ChatAll}, g.SendGroups(2))

	advanceTo(t, g, PhaseNight)
	assert.Equal(t, []ChatGroup{ChatMafia}, g.SendGroups(0))
	assert.Empty(t, g.SendGroups(2))
	assert.True(t, g.ReceivesFrom(ChatMafia, 1))
	assert.False(t, g.ReceivesFrom(ChatMafia, 2))
}

func TestChat_DeliversToReceiversOnly(t *testing.T) {
	g, _ := newTestGame(t, RoleMafioso, RoleConsort, RoleSheriff, RoleDoctor, RoleLookout, RoleEscort)
	advanceTo(t, g, PhaseNight)

	require.NoError(t, g.OnClientMessage(0, SendChatMessage{Text: "  hello  "}))

	got := messagesOfKind(g, 1, MsgNormal)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, ChatMafia, got[0].Group)
	assert.Equal(t, PlayerIndex(0), *got[0].Sender)
	assert.Empty(t, messagesOfKind(g, 2, MsgNormal))
}

func TestChat_Rejections(t *testing.T) {
	g, sink := newTestGame(t, basicRoster()...)

	assert.ErrorIs(t, g.OnClientMessage(1, SendChatMessage{Text: "too early"}), ErrInputRejected)

	advanceTo(t, g, PhaseDiscussion)
	assert.ErrorIs(t, g.OnClientMessage(1, SendChatMessage{Text: "   "}), ErrInputRejected)
	assert.ErrorIs(t, g.OnClientMessage(1, SendChatMessage{Text: strings.Repeat("a", maxChatLength+1)}), ErrInputRejected)
	assert.Len(t, sink.to(1, "rejected"), 3)
	assert.Empty(t, messagesOfKind(g, 0, MsgNormal))
}

func TestChat_DeadPlayersTalkAmongThemselves(t *testing.T) {
	g, _ := newTestGame(t, RoleMafioso, RoleDoctor, RoleSheriff, RoleLookout, RoleEscort)
	advanceTo(t, g, PhaseNight)
	choosePlayer(t, g, 0, RoleController(0, RoleMafioso, 0), 2)
	nextPhase(g)
	require.False(t, g.Alive(2))

	advanceTo(t, g, PhaseDiscussion)
	assert.Equal(t, []ChatGroup{ChatDead}, g.SendGroups(2))
	assert.Equal(t, []ChatGroup{ChatAll, ChatDead}, g.ReceiveGroups(2))

	require.NoError(t, g.OnClientMessage(2, SendChatMessage{Text: "boo"}))
	assert.Len(t, messagesOfKind(g, 2, MsgNormal), 1)
	assert.Empty(t, messagesOfKind(g, 1, MsgNormal))
}

func TestChat_DeadCanChatModifier(t *testing.T) {
	settings := testSettings(RoleMafioso, RoleDoctor, RoleSheriff, RoleLookout, RoleEscort)
	settings.Modifiers = []ModifierType{ModifierDeadCanChat}
	g, _ := newTestGameWith(t, settings)
	advanceTo(t, g, PhaseNight)
	choosePlayer(t, g, 0, RoleController(0, RoleMafioso, 0), 2)
	nextPhase(g)

	assert.Equal(t, []ChatGroup{ChatDead, ChatAll}, g.SendGroups(2))
}

func TestChat_GroupsPacketSentOnChange(t *testing.T) {
	g, sink := newTestGame(t, RoleMafioso, RoleDoctor, RoleSheriff, RoleLookout, RoleEscort)
	before := len(sink.to(3, "chat_groups"))

	advanceTo(t, g, PhaseDiscussion)
	afterDiscussion := len(sink.to(3, "chat_groups"))
	assert.Equal(t, before+1, afterDiscussion)

	nextPhase(g)
	assert.Equal(t, afterDiscussion, len(sink.to(3, "chat_groups")), "nomination keeps the same groups")
}

func TestWhisper_DeliveredAndBroadcast(t *testing.T) {
	g, _ := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseDiscussion)

	require.NoError(t, g.OnClientMessage(1, SendWhisper{Receiver: 2, Text: "psst"}))

	assert.Len(t, messagesOfKind(g, 1, MsgWhisper), 1)
	assert.Len(t, messagesOfKind(g, 2, MsgWhisper), 1)
	assert.Empty(t, messagesOfKind(g, 3, MsgWhisper))
	broadcast := messagesOfKind(g, 3, MsgBroadcastWhisper)
	require.Len(t, broadcast, 1)
	assert.Equal(t, PlayerIndex(1), *broadcast[0].Sender)
	assert.Equal(t, PlayerIndex(2), *broadcast[0].Target)
}

func TestWhisper_Cancelled(t *testing.T) {
	t.Run("at night", func(t *testing.T) {
		g, _ := newTestGame(t, basicRoster()...)
		advanceTo(t, g, PhaseNight)
		assert.ErrorIs(t, g.OnClientMessage(1, SendWhisper{Receiver: 2, Text: "psst"}), ErrInputRejected)
		assert.Empty(t, messagesOfKind(g, 2, MsgWhisper))
	})

	t.Run("no whispers modifier", func(t *testing.T) {
		settings := testSettings(basicRoster()...)
		settings.Modifiers = []ModifierType{ModifierNoWhispers}
		g, _ := newTestGameWith(t, settings)
		advanceTo(t, g, PhaseDiscussion)
		assert.ErrorIs(t, g.OnClientMessage(1, SendWhisper{Receiver: 2, Text: "psst"}), ErrInputRejected)
	})

	t.Run("revealed mayor", func(t *testing.T) {
		g, _ := newTestGame(t, RoleMafioso, RoleMayor, RoleDoctor, RoleLookout, RoleEscort)
		advanceTo(t, g, PhaseDiscussion)
		require.NoError(t, g.AbilityInput(1, AbilityInput{ID: RoleController(1, RoleMayor, 0), Selection: UnitSelection{}}))
		assert.ErrorIs(t, g.OnClientMessage(2, SendWhisper{Receiver: 1, Text: "psst"}), ErrInputRejected)
		assert.ErrorIs(t, g.OnClientMessage(1, SendWhisper{Receiver: 2, Text: "psst"}), ErrInputRejected)
	})

	t.Run("to self", func(t *testing.T) {
		g, _ := newTestGame(t, basicRoster()...)
		advanceTo(t, g, PhaseDiscussion)
		assert.ErrorIs(t, g.OnClientMessage(1, SendWhisper{Receiver: 1, Text: "psst"}), ErrInputRejected)
	})
}

func TestWhisper_HiddenBroadcast(t *testing.T) {
	settings := testSettings(basicRoster()...)
	settings.Modifiers = []ModifierType{ModifierHiddenWhispers}
	g, _ := newTestGameWith(t, settings)
	advanceTo(t, g, PhaseDiscussion)

	require.NoError(t, g.OnClientMessage(1, SendWhisper{Receiver: 2, Text: "psst"}))
	assert.Len(t, messagesOfKind(g, 2, MsgWhisper), 1)
	assert.Empty(t, messagesOfKind(g, 3, MsgBroadcastWhisper))
}

func TestWill_Save(t *testing.T) {
	g, _ := newTestGame(t, basicRoster()...)

	require.NoError(t, g.OnClientMessage(1, SaveWill{Text: "I am the sheriff"}))
	assert.Equal(t, "I am the sheriff", g.Will(1))
	assert.ErrorIs(t, g.OnClientMessage(1, SaveWill{Text: strings.Repeat("x", maxWillLength+1)}), ErrInputRejected)
	assert.Equal(t, "I am the sheriff", g.Will(1))
}
