package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbilityInput_RejectionLeavesStateUnchanged(t *testing.T) {
	g, sink := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseNight)
	id := RoleController(0, RoleMafioso, 0)

	tests := []struct {
		name  string
		actor PlayerIndex
		input AbilityInput
	}{
		{"unknown actor", 9, AbilityInput{ID: id, Selection: PlayerOption{Player: ptr(PlayerIndex(1))}}},
		{"nil selection", 0, AbilityInput{ID: id}},
		{"not allowed", 1, AbilityInput{ID: id, Selection: PlayerOption{Player: ptr(PlayerIndex(2))}}},
		{"wrong kind", 0, AbilityInput{ID: id, Selection: BooleanSelection{Value: true}}},
		{"self target", 0, AbilityInput{ID: id, Selection: PlayerOption{Player: ptr(PlayerIndex(0))}}},
		{"no such slot", 0, AbilityInput{ID: RoleController(0, RoleSheriff, 0), Selection: PlayerOption{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(sink.packets)
			err := g.AbilityInput(tt.actor, tt.input)
			require.ErrorIs(t, err, ErrInputRejected)
			_, saved := g.Selection(id)
			assert.False(t, saved)
			for _, sp := range sink.packets[before:] {
				assert.Equal(t, "rejected", sp.Packet.PacketType())
			}
		})
	}
}

func TestAbilityInput_SelectionPacketOnChange(t *testing.T) {
	g, sink := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseNight)
	id := RoleController(0, RoleMafioso, 0)

	choosePlayer(t, g, 0, id, 2)
	choosePlayer(t, g, 0, id, 2)
	assert.Len(t, sink.to(0, "selection"), 1, "resubmitting the same selection is silent")

	choosePlayer(t, g, 0, id, 3)
	packets := sink.to(0, "selection")
	require.Len(t, packets, 2)
	assert.Equal(t, SelectionPacket{ID: id, Selection: PlayerOption{Player: ptr(PlayerIndex(3))}}, packets[1])
	sel, ok := g.Selection(id)
	require.True(t, ok)
	assert.Equal(t, PlayerOption{Player: ptr(PlayerIndex(3))}, sel)
}

func TestAbilityInput_ClearedWhenPhaseResets(t *testing.T) {
	g, _ := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseNight)
	id := RoleController(1, RoleSheriff, 0)
	choosePlayer(t, g, 1, id, 0)

	nextPhase(g)
	require.Equal(t, PhaseObituary, g.Phase().Type)
	_, ok := g.Selection(id)
	assert.False(t, ok)
}

func TestAbilityInput_InvalidatedByDeath(t *testing.T) {
	g, _ := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseDiscussion)
	forfeit := ForfeitVoteController(2)
	chooseBool(t, g, 2, forfeit, true)

	advanceTo(t, g, PhaseNight)
	choosePlayer(t, g, 0, RoleController(0, RoleMafioso, 0), 2)
	nextPhase(g)

	_, ok := g.Selection(forfeit)
	assert.False(t, ok, "a dead player's slots disappear")
	_, ok = g.controller(forfeit)
	assert.False(t, ok)
}

func TestControllers_SortedAndScoped(t *testing.T) {
	g, _ := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseNight)

	all := g.Controllers()
	for i := 1; i < len(all); i++ {
		assert.Negative(t, compareControllerIDs(all[i-1].ID, all[i].ID))
	}
	for _, c := range g.ControllersFor(1) {
		assert.Contains(t, c.AllowedPlayers, PlayerIndex(1))
	}

	sheriff, ok := g.controller(RoleController(1, RoleSheriff, 0))
	require.True(t, ok)
	assert.Equal(t, []PlayerIndex{0, 2, 3, 4}, sheriff.Available.(AvailablePlayerOption).Players)
	mafioso, ok := g.controller(RoleController(0, RoleMafioso, 0))
	require.True(t, ok)
	assert.False(t, mafioso.GrayedOut)
}

func TestAvailable_Validate(t *testing.T) {
	players := AvailablePlayerOption{Players: []PlayerIndex{1, 2}}
	assert.True(t, players.Validate(PlayerOption{Player: ptr(PlayerIndex(1))}))
	assert.False(t, players.Validate(PlayerOption{Player: ptr(PlayerIndex(3))}))
	assert.False(t, players.Validate(PlayerOption{}))
	assert.True(t, AvailablePlayerOption{CanChooseNone: true}.Validate(PlayerOption{}))

	two := AvailableTwoPlayerOption{Players: []PlayerIndex{0, 1, 2}}
	assert.True(t, two.Validate(TwoPlayerOption{Players: &[2]PlayerIndex{0, 2}}))
	assert.False(t, two.Validate(TwoPlayerOption{Players: &[2]PlayerIndex{1, 1}}))
	assert.False(t, two.Validate(TwoPlayerOption{Players: &[2]PlayerIndex{1, 5}}))

	outlines := AvailableTwoRoleOutlineOption{Outlines: []int{0, 3}}
	assert.True(t, outlines.Validate(TwoRoleOutlineOption{First: ptr(3)}))
	assert.False(t, outlines.Validate(TwoRoleOutlineOption{First: ptr(3), Second: ptr(3)}))
	assert.False(t, outlines.Validate(TwoRoleOutlineOption{}))

	ints := AvailableInteger{Min: 0, Max: 1}
	assert.True(t, ints.Validate(IntegerSelection{Value: 1}))
	assert.False(t, ints.Validate(IntegerSelection{Value: 2}))
	assert.Equal(t, IntegerSelection{Value: 0}, ints.Default())

	assert.False(t, AvailableChatMessage{MaxLen: 3}.Validate(ChatMessageSelection{Text: "four"}))
	assert.True(t, AvailableUnit{}.Validate(UnitSelection{}))
	assert.False(t, AvailableBoolean{}.Validate(UnitSelection{}))
}

func TestSnapshotFor(t *testing.T) {
	g, _ := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseDiscussion)
	require.NoError(t, g.OnClientMessage(3, SaveWill{Text: "lookout"}))

	snap := g.SnapshotFor(3)
	assert.Equal(t, PlayerIndex(3), snap.Self)
	assert.Equal(t, RoleLookout, snap.Role)
	assert.Equal(t, PhaseDiscussion, snap.Phase.Type)
	assert.Equal(t, "lookout", snap.Will)
	assert.Len(t, snap.Players, 5)
	assert.Equal(t, []ChatGroup{ChatAll}, snap.Send)
	for _, c := range snap.Controllers {
		assert.Contains(t, c.AllowedPlayers, PlayerIndex(3))
	}
	assert.False(t, snap.Ended)
}

func TestSummary(t *testing.T) {
	g, _ := newTestGame(t, RoleMafioso, RoleSheriff)
	advanceTo(t, g, PhaseNight)
	choosePlayer(t, g, 0, RoleController(0, RoleMafioso, 0), 1)
	nextPhase(g)

	s := g.Summary()
	assert.True(t, s.Ended)
	assert.Equal(t, ConclusionMafia, s.Conclusion)
	assert.Equal(t, []PlayerResult{
		{Index: 0, Name: "player0", Role: RoleMafioso, Alive: true, Won: true},
		{Index: 1, Name: "player1", Role: RoleSheriff, Alive: false, Won: false},
	}, s.Players)
}

func TestValidateAbilityInput_Pure(t *testing.T) {
	g, sink := newTestGame(t, basicRoster()...)
	advanceTo(t, g, PhaseNight)
	id := RoleController(1, RoleSheriff, 0)

	valid := AbilityInput{ID: id, Selection: PlayerOption{Player: ptr(PlayerIndex(0))}}
	invalid := AbilityInput{ID: id, Selection: PlayerOption{Player: ptr(PlayerIndex(9))}}
	before := len(sink.packets)

	for range 2 {
		assert.NoError(t, g.ValidateAbilityInput(1, valid))
		assert.ErrorIs(t, g.ValidateAbilityInput(1, invalid), ErrInputRejected)
	}

	_, saved := g.Selection(id)
	assert.False(t, saved, "validation does not commit")
	assert.Len(t, sink.packets, before)

	require.NoError(t, g.AbilityInput(1, valid))
	assert.NoError(t, g.ValidateAbilityInput(1, valid), "an already saved selection still validates")
}
