package game

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type sentPacket struct {
	To     PlayerIndex
	Packet Packet
}

// recordingSink keeps every packet the game sends.
type recordingSink struct {
	packets []sentPacket
}

func (s *recordingSink) Send(to PlayerIndex, p Packet) {
	s.packets = append(s.packets, sentPacket{To: to, Packet: p})
}

func (s *recordingSink) to(p PlayerIndex, packetType string) []Packet {
	var out []Packet
	for _, sp := range s.packets {
		if sp.To == p && sp.Packet.PacketType() == packetType {
			out = append(out, sp.Packet)
		}
	}
	return out
}

func testSettings(roles ...Role) Settings {
	list := make([]RoleOutline, len(roles))
	for i, r := range roles {
		list[i] = RoleOutline{Role: r}
	}
	return Settings{RoleList: list, Seed: 7, AssignInOrder: true}
}

func testNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("player%d", i)
	}
	return names
}

// newTestGame creates and starts a game where player i holds roles[i].
func newTestGame(t *testing.T, roles ...Role) (*Game, *recordingSink) {
	t.Helper()
	return newTestGameWith(t, testSettings(roles...))
}

func newTestGameWith(t *testing.T, settings Settings) (*Game, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	g, err := New(testNames(len(settings.RoleList)), settings, WithSink(sink))
	require.NoError(t, err)
	g.Start()
	return g, sink
}

// advanceTo ends phases until one of type target is running.
func advanceTo(t *testing.T, g *Game, target PhaseType) {
	t.Helper()
	for range 32 {
		if g.Phase().Type == target || g.Ended() {
			return
		}
		g.StartPhase(g.End())
	}
	t.Fatalf("phase %s not reached, stuck in %s", target, g.Phase())
}

// nextPhase ends the current phase.
func nextPhase(g *Game) {
	g.StartPhase(g.End())
}

func choosePlayer(t *testing.T, g *Game, actor PlayerIndex, id ControllerID, target PlayerIndex) {
	t.Helper()
	require.NoError(t, g.AbilityInput(actor, AbilityInput{ID: id, Selection: PlayerOption{Player: ptr(target)}}))
}

func chooseBool(t *testing.T, g *Game, actor PlayerIndex, id ControllerID, v bool) {
	t.Helper()
	require.NoError(t, g.AbilityInput(actor, AbilityInput{ID: id, Selection: BooleanSelection{Value: v}}))
}

func messagesOfKind(g *Game, p PlayerIndex, kind MessageKind) []ChatMessage {
	var out []ChatMessage
	for _, m := range g.Messages(p) {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func hasMessage(g *Game, p PlayerIndex, kind MessageKind) bool {
	return slices.ContainsFunc(g.Messages(p), func(m ChatMessage) bool { return m.Kind == kind })
}
