package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/duskfall/internal/game"
)

type emitted struct {
	Event string
	Args  []interface{}
}

// fakeConn stands in for a socket.io connection.
type fakeConn struct {
	id string

	mu     sync.Mutex
	ctx    interface{}
	events []emitted
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Emit(event string, v ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, emitted{Event: event, Args: v})
}

func (c *fakeConn) Context() interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

func (c *fakeConn) SetContext(v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = v
}

func (c *fakeConn) Emitted(event string) []emitted {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []emitted
	for _, e := range c.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func TestHub_DeliverToEverySocketOfASeat(t *testing.T) {
	h := NewHub()
	a, b, other := newFakeConn("a"), newFakeConn("b"), newFakeConn("c")
	assert.Equal(t, 1, h.Attach("g1", 0, a))
	assert.Equal(t, 2, h.Attach("g1", 0, b))
	h.Attach("g1", 1, other)

	h.Deliver("g1", 0, game.RolePacket{Role: game.RoleSheriff})

	for _, c := range []*fakeConn{a, b} {
		got := c.Emitted(EventPacket)
		require.Len(t, got, 1)
		env := got[0].Args[0].(Envelope)
		assert.Equal(t, "role", env.Type)
		assert.JSONEq(t, `{"role":"sheriff"}`, string(env.Data))
	}
	assert.Empty(t, other.Emitted(EventPacket))
}

func TestHub_Detach(t *testing.T) {
	h := NewHub()
	a, b := newFakeConn("a"), newFakeConn("b")
	h.Attach("g1", 2, a)
	h.Attach("g1", 2, b)

	assert.Equal(t, 1, h.Detach("g1", 2, "a"))
	assert.Equal(t, 0, h.Detach("g1", 2, "b"))
	assert.Equal(t, 0, h.Detach("g1", 2, "b"), "detaching twice is harmless")

	h.Deliver("g1", 2, game.RejectedPacket{Reason: "x"})
	assert.Empty(t, a.Emitted(EventPacket))
}

func TestHub_DropGame(t *testing.T) {
	h := NewHub()
	h.Attach("g1", 0, newFakeConn("a"))
	h.Attach("g1", 1, newFakeConn("b"))
	h.Attach("g2", 0, newFakeConn("c"))

	h.DropGame("g1")
	assert.Zero(t, h.Connections("g1", 0))
	assert.Zero(t, h.Connections("g1", 1))
	assert.Equal(t, 1, h.Connections("g2", 0))
}

func TestSeatTokens(t *testing.T) {
	s := newSeatTokens()
	tokens := s.issue("g1", 3)
	require.Len(t, tokens, 3)
	assert.NotEqual(t, tokens[0], tokens[1])

	st, ok := s.lookup(tokens[2])
	require.True(t, ok)
	assert.Equal(t, seat{game: "g1", player: 2}, st)

	s.drop("g1")
	_, ok = s.lookup(tokens[2])
	assert.False(t, ok)
}
