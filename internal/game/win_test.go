package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinCondition_Accepts(t *testing.T) {
	w := WinIfAny(ConclusionMafia, ConclusionFiends)
	assert.True(t, w.Accepts(ConclusionMafia))
	assert.True(t, w.Accepts(ConclusionFiends))
	assert.False(t, w.Accepts(ConclusionTown))
	assert.Equal(t, "mafia|fiends", w.String())

	assert.False(t, RoleStateWins().Accepts(ConclusionTown))
	assert.Equal(t, "none", WinCondition{}.String())
	assert.True(t, WinIfAny(ConclusionTown).isLoyalist(ConclusionTown))
	assert.False(t, w.isLoyalist(ConclusionMafia))
}

func TestWin_DrawWithoutRunningRoles(t *testing.T) {
	g, _ := newTestGame(t, RoleJester, RoleAmnesiac)

	c, ended := g.Conclusion()
	require.True(t, ended)
	assert.Equal(t, ConclusionDraw, c)
	assert.False(t, g.Won(0))
	assert.False(t, g.Won(1))
}

func TestWin_MafiaWins(t *testing.T) {
	g, sink := newTestGame(t, RoleMafioso, RoleSheriff, RoleJester)
	advanceTo(t, g, PhaseNight)
	choosePlayer(t, g, 0, RoleController(0, RoleMafioso, 0), 1)
	nextPhase(g)

	c, ended := g.Conclusion()
	require.True(t, ended)
	assert.Equal(t, ConclusionMafia, c)
	assert.True(t, g.Won(0))
	assert.False(t, g.Won(1))
	assert.False(t, g.Won(2), "an unlynched jester loses")

	over := sink.to(0, "game_over")
	require.Len(t, over, 1)
	assert.Equal(t, GameOverPacket{Conclusion: ConclusionMafia, Won: true}, over[0])
	assert.True(t, hasMessage(g, 2, MsgGameOver))
}

func TestWin_EndedGameIsFrozen(t *testing.T) {
	g, _ := newTestGame(t, RoleMafioso, RoleSheriff)
	advanceTo(t, g, PhaseNight)
	choosePlayer(t, g, 0, RoleController(0, RoleMafioso, 0), 1)
	nextPhase(g)
	require.True(t, g.Ended())

	phase := g.Phase()
	g.Tick(time.Hour)
	assert.Equal(t, phase, g.Phase())
	assert.ErrorIs(t, g.OnClientMessage(0, SendChatMessage{Text: "gg"}), ErrInputRejected)
	assert.ErrorIs(t, g.AbilityInput(0, AbilityInput{ID: ForfeitVoteController(0), Selection: BooleanSelection{Value: true}}), ErrInputRejected)
}

func TestWin_JesterLynchedThenHaunts(t *testing.T) {
	g, _ := newTestGame(t, RoleJester, RoleMafioso, RoleSheriff, RoleDoctor, RoleLookout, RoleEscort)
	advanceTo(t, g, PhaseNomination)
	for _, p := range []PlayerIndex{1, 2, 3, 4} {
		require.NoError(t, g.OnClientMessage(p, Vote{Player: ptr(PlayerIndex(0))}))
	}
	require.Equal(t, PhaseTestimony, g.Phase().Type)
	nextPhase(g)
	require.NoError(t, g.OnClientMessage(2, JudgementVote{Verdict: VerdictGuilty}))
	require.NoError(t, g.OnClientMessage(3, JudgementVote{Verdict: VerdictGuilty}))
	nextPhase(g)
	require.Equal(t, PhaseFinalWords, g.Phase().Type)
	nextPhase(g)

	assert.False(t, g.Alive(0))
	assert.True(t, g.RoleState(0).(*Jester).Won())
	assert.True(t, hasMessage(g, 4, MsgJesterWon))
	assert.False(t, g.Ended())

	ctrl, ok := g.controller(RoleController(0, RoleJester, 0))
	require.True(t, ok)
	assert.True(t, ctrl.GrayedOut, "the haunt waits for the night")
	assert.Equal(t, []PlayerIndex{2, 3}, ctrl.Available.(AvailablePlayerOption).Players)

	advanceTo(t, g, PhaseNight)
	choosePlayer(t, g, 0, RoleController(0, RoleJester, 0), 3)
	nextPhase(g)

	assert.False(t, g.Alive(3))
	assert.True(t, g.Alive(2))
	grave := g.Graves()[1]
	assert.Equal(t, PlayerIndex(3), grave.Player)
	assert.Equal(t, []GraveKiller{{Kind: KillerRole, Role: RoleJester}}, grave.DeathCause.Killers)
	_, ok = g.controller(RoleController(0, RoleJester, 0))
	assert.False(t, ok, "the jester haunts once")
}

func TestWin_AmnesiacRemembersRole(t *testing.T) {
	g, _ := newTestGame(t, RoleAmnesiac, RoleMafioso, RoleSheriff, RoleDoctor, RoleLookout, RoleEscort)
	advanceTo(t, g, PhaseNight)

	ctrl, ok := g.controller(RoleController(0, RoleAmnesiac, 0))
	require.True(t, ok)
	assert.Empty(t, ctrl.Available.(AvailableRoleOption).Roles)

	choosePlayer(t, g, 1, RoleController(1, RoleMafioso, 0), 2)
	nextPhase(g)
	advanceTo(t, g, PhaseNight)

	require.NoError(t, g.AbilityInput(0, AbilityInput{ID: RoleController(0, RoleAmnesiac, 0), Selection: RoleOption{Role: RoleSheriff}}))
	nextPhase(g)

	assert.Equal(t, RoleSheriff, g.RoleOf(0))
	assert.Equal(t, WinIfAny(ConclusionTown), g.WinConditionOf(0))
	assert.True(t, hasMessage(g, 0, MsgRoleAssignment))
}
