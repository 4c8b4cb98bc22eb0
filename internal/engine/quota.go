package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/duskfall/internal/game"
)

// DefaultMessageQuota is the number of client messages one player may send
// during a single phase.
const DefaultMessageQuota = 120

// QuotaEnforcer counts client messages per player and phase and rejects
// players who flood the game.
//
// The runner calls Check before every client message and Reset whenever a
// new phase starts. A zero limit disables the quota.
type QuotaEnforcer struct {
	limit  int
	counts map[game.PlayerIndex]int
}

// NewQuotaEnforcer creates an enforcer allowing limit messages per phase.
func NewQuotaEnforcer(limit int) *QuotaEnforcer {
	return &QuotaEnforcer{
		limit:  limit,
		counts: make(map[game.PlayerIndex]int),
	}
}

// Check counts one message from p.
//
// Returns QuotaExceededError once p has sent more than the limit.
func (q *QuotaEnforcer) Check(p game.PlayerIndex) error {
	if q.limit <= 0 {
		return nil
	}
	q.counts[p]++
	if n := q.counts[p]; n > q.limit {
		return &QuotaExceededError{Player: p, Messages: n, Limit: q.limit}
	}
	return nil
}

// Reset clears every counter.
func (q *QuotaEnforcer) Reset() {
	clear(q.counts)
}

// Current returns how many messages p sent this phase.
func (q *QuotaEnforcer) Current(p game.PlayerIndex) int {
	return q.counts[p]
}

// Limit returns the per-phase limit.
func (q *QuotaEnforcer) Limit() int {
	return q.limit
}

// QuotaExceededError is returned when a player exceeds the message quota.
// The message is dropped; the player keeps playing.
type QuotaExceededError struct {
	Player   game.PlayerIndex
	Messages int
	Limit    int
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("player %d exceeded message quota: %d messages > %d limit",
		e.Player, e.Messages, e.Limit)
}

// IsQuotaExceededError returns true if the error is a QuotaExceededError.
// Uses errors.As to handle wrapped errors.
func IsQuotaExceededError(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}
