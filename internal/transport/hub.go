package transport

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/roach88/duskfall/internal/game"
)

// EventPacket carries every game packet to the client.
const EventPacket = "game:packet"

// emitter is the part of a socket.io connection the hub needs.
type emitter interface {
	ID() string
	Emit(event string, v ...interface{})
}

type seat struct {
	game   string
	player game.PlayerIndex
}

// Hub routes packets from running games to the sockets of each seat. A
// player may hold several connections; each one gets every packet.
//
// Hub implements engine.Outbox. Deliver is called from game loops and only
// holds the lock long enough to copy the connection list.
type Hub struct {
	mu    sync.RWMutex
	conns map[seat]map[string]emitter
}

func NewHub() *Hub {
	return &Hub{conns: make(map[seat]map[string]emitter)}
}

// Attach adds c to a seat and returns the seat's connection count.
func (h *Hub) Attach(gameID string, p game.PlayerIndex, c emitter) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := seat{gameID, p}
	if h.conns[k] == nil {
		h.conns[k] = make(map[string]emitter)
	}
	h.conns[k][c.ID()] = c
	return len(h.conns[k])
}

// Detach removes a connection and returns how many remain on the seat.
func (h *Hub) Detach(gameID string, p game.PlayerIndex, connID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := seat{gameID, p}
	m := h.conns[k]
	delete(m, connID)
	if len(m) == 0 {
		delete(h.conns, k)
	}
	return len(m)
}

// DropGame forgets every connection of a game.
func (h *Hub) DropGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for k := range h.conns {
		if k.game == gameID {
			delete(h.conns, k)
		}
	}
}

// Connections returns the number of sockets on a seat.
func (h *Hub) Connections(gameID string, p game.PlayerIndex) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[seat{gameID, p}])
}

// Deliver implements engine.Outbox.
func (h *Hub) Deliver(gameID string, to game.PlayerIndex, p game.Packet) {
	h.mu.RLock()
	m := h.conns[seat{gameID, to}]
	targets := make([]emitter, 0, len(m))
	for _, c := range m {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	env, err := EncodePacket(p)
	if err != nil {
		log.Error().Err(err).Str("game", gameID).Uint8("player", uint8(to)).Msg("packet dropped")
		return
	}
	for _, c := range targets {
		c.Emit(EventPacket, env)
	}
}
