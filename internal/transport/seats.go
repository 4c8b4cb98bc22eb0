package transport

import (
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/duskfall/internal/game"
)

// seatTokens hands out one secret per seat. A client proves which player it
// is by presenting the token when it joins.
type seatTokens struct {
	mu      sync.Mutex
	byToken map[string]seat
	byGame  map[string][]string
}

func newSeatTokens() *seatTokens {
	return &seatTokens{
		byToken: make(map[string]seat),
		byGame:  make(map[string][]string),
	}
}

// issue creates tokens for players 0..n-1 of a game.
func (s *seatTokens) issue(gameID string, n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = uuid.NewString()
		s.byToken[tokens[i]] = seat{game: gameID, player: game.PlayerIndex(i)}
	}
	s.byGame[gameID] = tokens
	return tokens
}

func (s *seatTokens) lookup(token string) (seat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byToken[token]
	return st, ok
}

func (s *seatTokens) drop(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.byGame[gameID] {
		delete(s.byToken, t)
	}
	delete(s.byGame, gameID)
}
