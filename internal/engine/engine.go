package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/duskfall/internal/game"
)

// Outbox receives every packet produced by hosted games.
// Implementations must not block: Deliver is called from the runner goroutine.
type Outbox interface {
	Deliver(gameID string, to game.PlayerIndex, p game.Packet)
}

// OutboxFunc adapts a function to Outbox.
type OutboxFunc func(gameID string, to game.PlayerIndex, p game.Packet)

func (f OutboxFunc) Deliver(gameID string, to game.PlayerIndex, p game.Packet) { f(gameID, to, p) }

// gameSink tags a game's packets with its id.
type gameSink struct {
	id  string
	out Outbox
}

func (s gameSink) Send(to game.PlayerIndex, p game.Packet) { s.out.Deliver(s.id, to, p) }

// Status is the public state of a hosted game. It is safe to read from any
// goroutine.
type Status struct {
	ID         string    `json:"id"`
	Players    int       `json:"players"`
	Phase      string    `json:"phase"`
	Day        uint8     `json:"day"`
	Started    bool      `json:"started"`
	Ended      bool      `json:"ended"`
	Conclusion string    `json:"conclusion,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Runner is the single-writer event loop of one game.
//
// CRITICAL: the game is only touched from the Run goroutine. Every other
// caller goes through the command queue.
//
// Thread-safety model:
//   - Submit/Connect/Disconnect/Tick/Snapshot/Summary/Stop: safe from any goroutine
//   - Status: safe from any goroutine (atomic snapshot)
//   - Run: must be called from exactly one goroutine
type Runner struct {
	id      string
	game    *game.Game
	queue   *commandQueue
	clock   *Clock
	quota   *QuotaEnforcer
	out     Outbox
	opts    options
	log     zerolog.Logger
	created time.Time
	started time.Time

	phase    phaseKey
	status   atomic.Pointer[Status]
	done     chan struct{}
	hooks    sync.WaitGroup
	reported bool

	// onEnd runs in the Run goroutine once the game concludes.
	onEnd func(r *Runner)
}

// NewRunner creates the game and its runner. The game starts when Run is
// called.
func NewRunner(id string, names []string, settings game.Settings, out Outbox, opts ...Option) (*Runner, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newRunner(id, names, settings, out, o)
}

func newRunner(id string, names []string, settings game.Settings, out Outbox, o options) (*Runner, error) {
	log := o.log.With().Str("game", id).Logger()
	g, err := game.New(names, settings, game.WithSink(gameSink{id: id, out: out}), game.WithLogger(log))
	if err != nil {
		re := newInvalidSettingsError(err)
		re.GameID = id
		return nil, re
	}
	r := &Runner{
		id:      id,
		game:    g,
		queue:   newCommandQueue(),
		clock:   NewClock(),
		quota:   NewQuotaEnforcer(o.messageQuota),
		out:     out,
		opts:    o,
		log:     log,
		created: o.now(),
		done:    make(chan struct{}),
	}
	r.publishStatus()
	return r, nil
}

// ID returns the game id.
func (r *Runner) ID() string { return r.id }

// Status returns the most recently published state of the game.
func (r *Runner) Status() Status { return *r.status.Load() }

// Done is closed once Run has returned.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Submit forwards a client message from player p.
// Returns a stopped error if the runner no longer accepts commands.
func (r *Runner) Submit(p game.PlayerIndex, msg game.ClientMessage) error {
	return r.enqueue(Command{Type: CommandClientMessage, Player: p, Message: msg})
}

// Connect marks p as connected.
func (r *Runner) Connect(p game.PlayerIndex) error {
	return r.enqueue(Command{Type: CommandConnect, Player: p})
}

// Disconnect marks p as disconnected. Actions p already chose still
// resolve.
func (r *Runner) Disconnect(p game.PlayerIndex) error {
	return r.enqueue(Command{Type: CommandDisconnect, Player: p})
}

// Tick advances the phase timer by elapsed.
func (r *Runner) Tick(elapsed time.Duration) error {
	return r.enqueue(Command{Type: CommandTick, Elapsed: elapsed})
}

// Snapshot returns p's view of the game. It blocks until the Run loop has
// processed every command queued before it.
func (r *Runner) Snapshot(ctx context.Context, p game.PlayerIndex) (game.Snapshot, error) {
	reply := make(chan game.Snapshot, 1)
	if err := r.enqueue(Command{Type: CommandSnapshot, Player: p, Reply: reply}); err != nil {
		return game.Snapshot{}, err
	}
	select {
	case snap, ok := <-reply:
		if !ok {
			return game.Snapshot{}, fmt.Errorf("snapshot: unknown player %d", p)
		}
		return snap, nil
	case <-r.done:
		return game.Snapshot{}, newStoppedError(r.id)
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

// Summary returns the current outcome of every player. Like Snapshot it
// waits for earlier commands.
func (r *Runner) Summary(ctx context.Context) (game.Summary, error) {
	reply := make(chan game.Summary, 1)
	if err := r.enqueue(Command{Type: CommandSummary, SummaryReply: reply}); err != nil {
		return game.Summary{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-r.done:
		return game.Summary{}, newStoppedError(r.id)
	case <-ctx.Done():
		return game.Summary{}, ctx.Err()
	}
}

func (r *Runner) enqueue(c Command) error {
	if !r.queue.Enqueue(c) {
		return newStoppedError(r.id)
	}
	return nil
}

// Stop closes the command queue. Commands already queued are still
// processed, then Run returns nil.
func (r *Runner) Stop() {
	r.queue.Close()
}

// Flush waits for background stats reports to finish.
func (r *Runner) Flush() {
	r.hooks.Wait()
}

// Run starts the game and processes commands until the context is
// cancelled or Stop is called.
//
// CRITICAL: Must be called from exactly ONE goroutine.
//
// A rejected client message is logged at debug level and processing
// continues; the game has already told the player why.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	r.log.Info().Int("players", r.game.PlayerCount()).Msg("runner starting")

	r.start(ctx)

	var ticks <-chan time.Time
	if r.opts.tickInterval > 0 {
		ticker := time.NewTicker(r.opts.tickInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}
	last := time.Now()

	for {
		if cmd, ok := r.queue.TryDequeue(); ok {
			r.process(ctx, cmd)
			continue
		}
		if r.queue.Drained() {
			r.log.Info().Int64("seq", r.clock.Current()).Msg("runner stopped")
			return nil
		}

		select {
		case <-ctx.Done():
			r.queue.Close()
			r.log.Info().Err(ctx.Err()).Msg("runner cancelled")
			return ctx.Err()
		case now := <-ticks:
			r.process(ctx, Command{Type: CommandTick, Elapsed: now.Sub(last)})
			last = now
		case <-r.queue.Wait():
		}
	}
}

func (r *Runner) start(ctx context.Context) {
	if r.game.Started() {
		return
	}
	r.game.Start()
	r.publishStatus()

	r.started = r.opts.now()
	ev := GameStarted{
		GameID:    r.id,
		At:        r.started,
		Modifiers: r.game.Settings().Modifiers,
		Summary:   r.game.Summary(),
	}
	r.background(ctx, "record game start", func(ctx context.Context) error {
		return r.opts.recorder.RecordGameStart(ctx, ev)
	})
	r.checkEnded(ctx)
}

func (r *Runner) process(ctx context.Context, cmd Command) {
	cmd.Seq = r.clock.Next()

	switch cmd.Type {
	case CommandClientMessage:
		if err := r.quota.Check(cmd.Player); err != nil {
			r.dropFlood(cmd, err)
			break
		}
		if err := r.game.OnClientMessage(cmd.Player, cmd.Message); err != nil {
			r.log.Debug().
				Err(err).
				Int64("seq", cmd.Seq).
				Uint8("player", uint8(cmd.Player)).
				Msg("client message rejected")
		}
	case CommandTick:
		r.game.Tick(cmd.Elapsed)
	case CommandConnect, CommandDisconnect:
		if !r.game.ValidPlayer(cmd.Player) {
			r.log.Warn().Uint8("player", uint8(cmd.Player)).Str("command", cmd.Type.String()).Msg("unknown player")
			break
		}
		r.game.SetConnected(cmd.Player, cmd.Type == CommandConnect)
	case CommandSnapshot:
		if !r.game.ValidPlayer(cmd.Player) {
			close(cmd.Reply)
			break
		}
		cmd.Reply <- r.game.SnapshotFor(cmd.Player)
	case CommandSummary:
		cmd.SummaryReply <- r.game.Summary()
	default:
		r.log.Error().Int("type", int(cmd.Type)).Int64("seq", cmd.Seq).Msg("unknown command")
	}

	r.publishStatus()
	r.resetQuotaOnPhaseChange()
	r.checkEnded(ctx)
}

// phaseKey identifies one running phase.
type phaseKey struct {
	typ game.PhaseType
	day uint8
}

func (r *Runner) resetQuotaOnPhaseChange() {
	k := phaseKey{typ: r.game.Phase().Type, day: r.game.DayNumber()}
	if k != r.phase {
		r.phase = k
		r.quota.Reset()
	}
}

func (r *Runner) dropFlood(cmd Command, err error) {
	if !r.game.ValidPlayer(cmd.Player) {
		return
	}
	if r.quota.Current(cmd.Player) == r.quota.Limit()+1 {
		r.log.Warn().Err(err).Int64("seq", cmd.Seq).Uint8("player", uint8(cmd.Player)).Msg("message quota exceeded")
	}
	r.out.Deliver(r.id, cmd.Player, game.RejectedPacket{Reason: err.Error()})
}

func (r *Runner) checkEnded(ctx context.Context) {
	if r.reported || !r.game.Ended() {
		return
	}
	r.reported = true

	summary := r.game.Summary()
	r.log.Info().
		Str("conclusion", summary.Conclusion.String()).
		Uint8("day", summary.Day).
		Msg("game ended")

	ev := GameEnded{
		GameID:    r.id,
		StartedAt: r.started,
		At:        r.opts.now(),
		Modifiers: r.game.Settings().Modifiers,
		Summary:   summary,
	}
	r.background(ctx, "record game end", func(ctx context.Context) error {
		return r.opts.recorder.RecordGameEnd(ctx, ev)
	})
	if r.onEnd != nil {
		r.onEnd(r)
	}
}

// background runs a stats hook without blocking the game. Failures are
// logged and dropped.
func (r *Runner) background(ctx context.Context, what string, fn func(context.Context) error) {
	r.hooks.Add(1)
	go func() {
		defer r.hooks.Done()
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hookTimeout)
		defer cancel()
		if err := fn(hctx); err != nil {
			r.log.Warn().Err(err).Msg(what + " failed")
		}
	}()
}

func (r *Runner) publishStatus() {
	s := &Status{
		ID:        r.id,
		Players:   r.game.PlayerCount(),
		Day:       r.game.DayNumber(),
		Started:   r.game.Started(),
		Ended:     r.game.Ended(),
		CreatedAt: r.created,
	}
	if s.Started {
		s.Phase = r.game.Phase().Type.String()
	}
	if c, ok := r.game.Conclusion(); ok {
		s.Conclusion = c.String()
	}
	r.status.Store(s)
}
