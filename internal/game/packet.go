package game

import "time"

// Packet is a notification pushed from the game to one player.
type Packet interface {
	PacketType() string
}

// Sink delivers packets to players. Delivery is best effort: the game never
// learns whether a packet arrived.
type Sink interface {
	Send(to PlayerIndex, p Packet)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(to PlayerIndex, p Packet)

func (f SinkFunc) Send(to PlayerIndex, p Packet) { f(to, p) }

type discardSink struct{}

func (discardSink) Send(PlayerIndex, Packet) {}

type PhasePacket struct {
	Phase    PhaseState    `json:"phase"`
	Day      uint8         `json:"day"`
	TimeLeft time.Duration `json:"time_left"`
}

type ChatMessagesPacket struct {
	Messages []ChatMessage `json:"messages"`
}

type GravePacket struct {
	Grave Grave `json:"grave"`
}

type ChatGroupsPacket struct {
	Receive []ChatGroup `json:"receive"`
	Send    []ChatGroup `json:"send"`
}

type RolePacket struct {
	Role Role `json:"role"`
}

type RejectedPacket struct {
	Reason string `json:"reason"`
}

type GameOverPacket struct {
	Conclusion Conclusion `json:"conclusion"`
	Won        bool       `json:"won"`
}

type SelectionPacket struct {
	ID        ControllerID `json:"id"`
	Selection Selection    `json:"selection,omitempty"`
}

type PlayerVotesPacket struct {
	Votes map[PlayerIndex]int `json:"votes"`
}

// InsiderRolesPacket reveals the roles of a player's fellow insiders.
type InsiderRolesPacket struct {
	Group InsiderGroup         `json:"group"`
	Roles map[PlayerIndex]Role `json:"roles"`
}

func (PhasePacket) PacketType() string        { return "phase" }
func (ChatMessagesPacket) PacketType() string { return "chat_messages" }
func (GravePacket) PacketType() string        { return "grave" }
func (ChatGroupsPacket) PacketType() string   { return "chat_groups" }
func (RolePacket) PacketType() string         { return "role" }
func (RejectedPacket) PacketType() string     { return "rejected" }
func (GameOverPacket) PacketType() string     { return "game_over" }
func (SelectionPacket) PacketType() string    { return "selection" }
func (PlayerVotesPacket) PacketType() string  { return "player_votes" }
func (InsiderRolesPacket) PacketType() string { return "insider_roles" }

func (g *Game) send(to PlayerIndex, p Packet) {
	g.sink.Send(to, p)
}

func (g *Game) broadcast(p Packet) {
	for _, to := range g.Players() {
		g.sink.Send(to, p)
	}
}

func (g *Game) reject(to PlayerIndex, err error) {
	g.log.Debug().Err(err).Uint8("player", uint8(to)).Msg("input rejected")
	if g.ValidPlayer(to) {
		g.send(to, RejectedPacket{Reason: err.Error()})
	}
}
