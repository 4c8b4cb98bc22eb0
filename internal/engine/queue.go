package engine

import (
	"sync"
	"time"

	"github.com/roach88/duskfall/internal/game"
)

// CommandType distinguishes between command kinds.
type CommandType int

const (
	// CommandClientMessage forwards a player's message to the game.
	CommandClientMessage CommandType = iota + 1
	// CommandTick advances the phase timer.
	CommandTick
	// CommandConnect marks a player as connected.
	CommandConnect
	// CommandDisconnect marks a player as disconnected.
	CommandDisconnect
	// CommandSnapshot asks for one player's view of the game.
	CommandSnapshot
	// CommandSummary asks for the outcome of every player.
	CommandSummary
)

func (t CommandType) String() string {
	switch t {
	case CommandClientMessage:
		return "client_message"
	case CommandTick:
		return "tick"
	case CommandConnect:
		return "connect"
	case CommandDisconnect:
		return "disconnect"
	case CommandSnapshot:
		return "snapshot"
	case CommandSummary:
		return "summary"
	}
	return "unknown"
}

// Command is one unit of work for a game's Run loop.
type Command struct {
	Type    CommandType
	Player  game.PlayerIndex
	Message game.ClientMessage
	Elapsed time.Duration

	// Reply receives the snapshot for CommandSnapshot. It must be buffered.
	Reply chan<- game.Snapshot

	// SummaryReply receives the result of CommandSummary. It must be
	// buffered.
	SummaryReply chan<- game.Summary

	// Seq is stamped by the runner when the command is accepted.
	Seq int64
}

// commandQueue is a thread-safe FIFO queue for commands.
//
// The queue is unbounded so that transport handlers never block on a busy
// game. The Run loop is the only consumer.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop.
type commandQueue struct {
	mu       sync.Mutex
	commands []Command
	closed   bool
	signal   chan struct{} // buffered, size 1
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		commands: make([]Command, 0, 16),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a command to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *commandQueue) Enqueue(c Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.commands = append(q.commands, c)

	// buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Command{}, false) if the queue is empty.
func (q *commandQueue) TryDequeue() (Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.commands) == 0 {
		return Command{}, false
	}

	c := q.commands[0]

	// release the reply channel and message for GC
	q.commands[0] = Command{}

	if len(q.commands) == 1 {
		q.commands = q.commands[:0]
	} else {
		q.commands = q.commands[1:]
	}

	return c, true
}

// Wait returns a channel that signals when commands may be available.
// Use with select for context-aware waiting:
//
//	select {
//	case <-ctx.Done():
//	    return ctx.Err()
//	case <-q.Wait():
//	    // Try TryDequeue
//	}
func (q *commandQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commands)
}

// Drained reports whether the queue is closed and empty.
func (q *commandQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.commands) == 0
}

// Close signals that no more commands will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *commandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
