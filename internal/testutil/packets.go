package testutil

import (
	"sync"

	"github.com/roach88/duskfall/internal/game"
)

// SentPacket is one packet captured by a PacketLog.
type SentPacket struct {
	GameID string
	To     game.PlayerIndex
	Packet game.Packet
}

// PacketLog records packets. It works both as a game.Sink and as an
// engine outbox.
//
// Thread-safety: PacketLog is safe for concurrent use.
type PacketLog struct {
	mu      sync.Mutex
	packets []SentPacket
}

// Send implements game.Sink.
func (l *PacketLog) Send(to game.PlayerIndex, p game.Packet) {
	l.Deliver("", to, p)
}

// Deliver records a packet for a hosted game.
func (l *PacketLog) Deliver(gameID string, to game.PlayerIndex, p game.Packet) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.packets = append(l.packets, SentPacket{GameID: gameID, To: to, Packet: p})
}

// All returns a copy of every recorded packet in delivery order.
func (l *PacketLog) All() []SentPacket {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SentPacket, len(l.packets))
	copy(out, l.packets)
	return out
}

// To returns the packets of the given type sent to player p.
func (l *PacketLog) To(p game.PlayerIndex, packetType string) []game.Packet {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []game.Packet
	for _, sp := range l.packets {
		if sp.To == p && sp.Packet.PacketType() == packetType {
			out = append(out, sp.Packet)
		}
	}
	return out
}

// Len returns the number of recorded packets.
func (l *PacketLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.packets)
}

// Reset drops every recorded packet.
func (l *PacketLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.packets = nil
}
