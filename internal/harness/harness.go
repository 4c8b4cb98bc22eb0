package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/duskfall/internal/engine"
	"github.com/roach88/duskfall/internal/game"
	"github.com/roach88/duskfall/internal/store"
	"github.com/roach88/duskfall/internal/testutil"
	"github.com/roach88/duskfall/internal/transport"
)

// maxAdvance bounds how many phases one advance step may end.
const maxAdvance = 64

// Harness drives one scenario through a real engine runner.
//
// Every step is followed by a snapshot request, which the runner answers
// only after processing the step. Packets delivered up to that point are
// appended to the trace before the next step runs.
type Harness struct {
	runner  *engine.Runner
	packets *testutil.PacketLog
	clock   *engine.Clock
	seen    int
	logger  zerolog.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithLogger sets the logger for the harness and the game it runs.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory stats database so
// final_state assertions see only this game. Role assignment and timing
// are deterministic: the seed comes from the settings and time only moves
// when a step ticks.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	gs, err := scenario.GameSettings()
	if err != nil {
		return nil, fmt.Errorf("scenario settings: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		packets: &testutil.PacketLog{},
		clock:   engine.NewClock(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	engineOpts := []engine.Option{
		engine.WithTickInterval(0),
		engine.WithLogger(h.logger),
		engine.WithNow(testutil.NewManualClock().Now),
		engine.WithStatsRecorder(engine.NewStoreRecorder(st)),
	}
	if scenario.MessageQuota != 0 {
		engineOpts = append(engineOpts, engine.WithMessageQuota(scenario.MessageQuota))
	}
	h.runner, err = engine.NewRunner(scenario.Name, scenario.Players, gs, h.packets, engineOpts...)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- h.runner.Run(runCtx) }()

	result := NewResult()
	if err := h.execute(ctx, scenario.Flow, result); err != nil {
		h.runner.Stop()
		<-errc
		return nil, err
	}

	result.Summary, err = h.runner.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	h.runner.Stop()
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("runner: %w", err)
	}
	h.runner.Flush()

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) execute(ctx context.Context, flow []FlowStep, result *Result) error {
	if _, err := h.sync(ctx, result); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	for i, step := range flow {
		if err := h.step(ctx, i, step, result); err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}
	}
	return nil
}

func (h *Harness) step(ctx context.Context, i int, step FlowStep, result *Result) error {
	p := game.PlayerIndex(step.Player)

	switch {
	case step.Send != nil:
		raw, err := json.Marshal(step.Send)
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
		msg, err := transport.DecodeClientMessage(raw)
		if err != nil {
			return err
		}
		kind, _ := step.Send["type"].(string)
		var data json.RawMessage
		if d, ok := step.Send["data"]; ok {
			data, _ = json.Marshal(d)
		}
		result.AddInputTrace(step.Player, kind, data, h.clock.Next())
		if err := h.runner.Submit(p, msg); err != nil {
			return err
		}
		before := len(result.Trace)
		if _, err := h.sync(ctx, result); err != nil {
			return err
		}
		h.checkExpect(i, step, result.Trace[before:], result)

	case step.Advance != "":
		target, _ := game.ParsePhaseType(step.Advance)
		data, _ := json.Marshal(step.Advance)
		result.AddInputTrace(step.Player, "advance", data, h.clock.Next())
		return h.advance(ctx, target, result)

	case step.Tick != "":
		d, _ := time.ParseDuration(step.Tick)
		data, _ := json.Marshal(step.Tick)
		result.AddInputTrace(step.Player, "tick", data, h.clock.Next())
		if err := h.runner.Tick(d); err != nil {
			return err
		}
		_, err := h.sync(ctx, result)
		return err

	case step.Connected != nil:
		kind, cmd := "disconnect", h.runner.Disconnect
		if *step.Connected {
			kind, cmd = "connect", h.runner.Connect
		}
		result.AddInputTrace(step.Player, kind, nil, h.clock.Next())
		if err := cmd(p); err != nil {
			return err
		}
		_, err := h.sync(ctx, result)
		return err
	}
	return nil
}

// advance ends phases until target is running.
func (h *Harness) advance(ctx context.Context, target game.PhaseType, result *Result) error {
	for range maxAdvance {
		snap, err := h.sync(ctx, result)
		if err != nil {
			return err
		}
		if snap.Phase.Type == target {
			return nil
		}
		if snap.Ended {
			return fmt.Errorf("game ended before phase %s", target)
		}
		// No phase lasts longer than an hour.
		if err := h.runner.Tick(time.Hour); err != nil {
			return err
		}
	}
	return fmt.Errorf("phase %s not reached after %d phases", target, maxAdvance)
}

// sync waits for the runner to catch up and appends new packets to the
// trace.
func (h *Harness) sync(ctx context.Context, result *Result) (game.Snapshot, error) {
	snap, err := h.runner.Snapshot(ctx, 0)
	if err != nil {
		return game.Snapshot{}, err
	}
	all := h.packets.All()
	for _, sp := range all[h.seen:] {
		env, err := transport.EncodePacket(sp.Packet)
		if err != nil {
			return game.Snapshot{}, err
		}
		result.AddPacketTrace(int(sp.To), env.Type, env.Data, h.clock.Next())
	}
	h.seen = len(all)
	return snap, nil
}

func (h *Harness) checkExpect(i int, step FlowStep, events []TraceEvent, result *Result) {
	if step.Expect == "" {
		return
	}
	rejected := false
	for _, ev := range events {
		if ev.Type == EventPacket && ev.Player == step.Player && ev.Kind == "rejected" {
			rejected = true
		}
	}
	h.logger.Debug().Int("step", i).Str("expect", step.Expect).Bool("rejected", rejected).Msg("flow step checked")
	if rejected != (step.Expect == ExpectRejected) {
		result.AddError(fmt.Sprintf("flow[%d]: expected %s input, got rejected=%t", i, step.Expect, rejected))
	}
}
