package engine

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/duskfall/internal/game"
)

// Manager hosts many games, each on its own Runner goroutine.
//
// Thread-safety: every method is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	runners map[string]*Runner
	closed  bool

	opts   options
	outbox Outbox
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a manager whose runners live until ctx is cancelled or
// Shutdown is called.
func NewManager(ctx context.Context, out Outbox, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Manager{
		runners: make(map[string]*Runner),
		opts:    o,
		outbox:  out,
		log:     o.log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Create starts a new game for the roster and returns its runner.
func (m *Manager) Create(names []string, settings game.Settings) (*Runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, newStoppedError("")
	}
	if m.opts.maxGames > 0 && len(m.runners) >= m.opts.maxGames {
		return nil, newCapacityError(m.opts.maxGames)
	}

	id := m.opts.ids.Generate()
	if _, exists := m.runners[id]; exists {
		return nil, newGameExistsError(id)
	}
	r, err := newRunner(id, names, settings, m.outbox, m.opts)
	if err != nil {
		return nil, err
	}
	r.onEnd = m.scheduleStop
	m.runners[id] = r

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := r.Run(m.ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.log.Error().Err(err).Str("game", id).Msg("runner failed")
		}
		m.remove(r)
	}()

	m.log.Info().Str("game", id).Int("players", len(names)).Msg("game created")
	return r, nil
}

// scheduleStop keeps a finished game reachable for a while, then stops it.
func (m *Manager) scheduleStop(r *Runner) {
	if m.opts.endedTTL <= 0 {
		r.Stop()
		return
	}
	time.AfterFunc(m.opts.endedTTL, r.Stop)
}

func (m *Manager) remove(r *Runner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runners[r.id] == r {
		delete(m.runners, r.id)
	}
}

// Get returns the runner hosting the game.
func (m *Manager) Get(id string) (*Runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runners[id]
	if !ok {
		return nil, newNotFoundError(id)
	}
	return r, nil
}

// List returns the status of every hosted game, oldest first.
func (m *Manager) List() []Status {
	m.mu.RLock()
	out := make([]Status, 0, len(m.runners))
	for _, r := range m.runners {
		out = append(out, r.Status())
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Status) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Len returns the number of hosted games.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runners)
}

// Shutdown stops every runner and waits for them and their stats reports.
// The manager refuses new games afterwards.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	runners := make([]*Runner, 0, len(m.runners))
	for _, r := range m.runners {
		runners = append(runners, r)
	}
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	for _, r := range runners {
		r.Flush()
	}
	m.log.Info().Int("games", len(runners)).Msg("manager stopped")
}
