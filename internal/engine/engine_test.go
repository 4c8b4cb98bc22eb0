package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/duskfall/internal/game"
	"github.com/roach88/duskfall/internal/testutil"
)

// recordingStats keeps every report it receives.
type recordingStats struct {
	mu      sync.Mutex
	started []GameStarted
	ended   []GameEnded
	err     error
}

func (s *recordingStats) RecordGameStart(_ context.Context, ev GameStarted) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, ev)
	return s.err
}

func (s *recordingStats) RecordGameEnd(_ context.Context, ev GameEnded) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = append(s.ended, ev)
	return s.err
}

func (s *recordingStats) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.started), len(s.ended)
}

func testSettings(roles ...game.Role) game.Settings {
	list := make([]game.RoleOutline, len(roles))
	for i, r := range roles {
		list[i] = game.RoleOutline{Role: r}
	}
	return game.Settings{RoleList: list, Seed: 7, AssignInOrder: true}
}

func testNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("player%d", i)
	}
	return names
}

type runnerFixture struct {
	runner *Runner
	out    *testutil.PacketLog
	stats  *recordingStats
	cancel context.CancelFunc
	result chan error
}

// startRunner runs a game in the background with the ticker disabled.
func startRunner(t *testing.T, settings game.Settings, opts ...Option) *runnerFixture {
	t.Helper()
	f := &runnerFixture{
		out:    &testutil.PacketLog{},
		stats:  &recordingStats{},
		result: make(chan error, 1),
	}
	base := []Option{
		WithTickInterval(0),
		WithStatsRecorder(f.stats),
		WithNow(testutil.NewManualClock().Now),
	}
	r, err := NewRunner("game-1", testNames(len(settings.RoleList)), settings, f.out, append(base, opts...)...)
	require.NoError(t, err)
	f.runner = r

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() { f.result <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-r.Done()
		r.Flush()
	})
	return f
}

// sync waits until every queued command has been processed.
func (f *runnerFixture) sync(t *testing.T) game.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := f.runner.Snapshot(ctx, 0)
	require.NoError(t, err)
	return snap
}

func (f *runnerFixture) ticks(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.runner.Tick(time.Hour))
	}
}

func TestNewRunner_InvalidSettings(t *testing.T) {
	_, err := NewRunner("g", testNames(2), testSettings(game.RoleSheriff), &testutil.PacketLog{})

	require.Error(t, err)
	assert.True(t, IsInvalidSettingsError(err))
	assert.ErrorIs(t, err, game.ErrInvalidSettings)
	assert.Contains(t, err.Error(), "game=g")
}

func TestNewRunner_StatusBeforeRun(t *testing.T) {
	r, err := NewRunner("g", testNames(2), testSettings(game.RoleMafioso, game.RoleSheriff), &testutil.PacketLog{})
	require.NoError(t, err)

	st := r.Status()
	assert.Equal(t, "g", st.ID)
	assert.Equal(t, 2, st.Players)
	assert.False(t, st.Started)
	assert.Empty(t, st.Phase)
}

func TestRunner_StartsGame(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))

	snap := f.sync(t)
	assert.Equal(t, game.PhaseBriefing, snap.Phase.Type)
	assert.Equal(t, game.RoleMafioso, snap.Role)

	st := f.runner.Status()
	assert.True(t, st.Started)
	assert.Equal(t, "briefing", st.Phase)

	f.runner.Flush()
	f.stats.mu.Lock()
	defer f.stats.mu.Unlock()
	require.Len(t, f.stats.started, 1)
	assert.Equal(t, "game-1", f.stats.started[0].GameID)
	assert.Equal(t, testutil.Epoch, f.stats.started[0].At)
	assert.Len(t, f.stats.started[0].Summary.Players, 2)

	for _, sp := range f.out.All() {
		assert.Equal(t, "game-1", sp.GameID)
	}
	assert.Len(t, f.out.To(1, "role"), 1)
}

func TestRunner_PlaysToConclusion(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))

	f.ticks(t, 4)
	require.Equal(t, game.PhaseNight, f.sync(t).Phase.Type)

	victim := game.PlayerIndex(1)
	require.NoError(t, f.runner.Submit(0, game.AbilityInput{
		ID:        game.RoleController(0, game.RoleMafioso, 0),
		Selection: game.PlayerOption{Player: &victim},
	}))
	f.ticks(t, 1)

	snap := f.sync(t)
	assert.True(t, snap.Ended)
	assert.Equal(t, game.ConclusionMafia, snap.Conclusion)

	st := f.runner.Status()
	assert.True(t, st.Ended)
	assert.Equal(t, "mafia", st.Conclusion)

	f.runner.Flush()
	started, ended := f.stats.counts()
	assert.Equal(t, 1, started)
	require.Equal(t, 1, ended)
	assert.Equal(t, game.ConclusionMafia, f.stats.ended[0].Summary.Conclusion)

	over := f.out.To(0, "game_over")
	require.Len(t, over, 1)
	assert.True(t, over[0].(game.GameOverPacket).Won)

	summary, err := f.runner.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.ConclusionMafia, summary.Conclusion)
	require.Len(t, summary.Players, 2)
	assert.False(t, summary.Players[1].Alive)
	assert.True(t, summary.Players[0].Won)
}

func TestRunner_EndReportedOnce(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))
	f.ticks(t, 4)
	victim := game.PlayerIndex(1)
	require.NoError(t, f.runner.Submit(0, game.AbilityInput{
		ID:        game.RoleController(0, game.RoleMafioso, 0),
		Selection: game.PlayerOption{Player: &victim},
	}))
	f.ticks(t, 5)
	f.sync(t)
	f.runner.Flush()

	_, ended := f.stats.counts()
	assert.Equal(t, 1, ended)
}

func TestRunner_RejectedInputKeepsRunning(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))

	target := game.PlayerIndex(0)
	require.NoError(t, f.runner.Submit(1, game.Vote{Player: &target}))
	require.NoError(t, f.runner.Submit(1, game.SaveWill{Text: "sheriff"}))

	snap, err := f.runner.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "sheriff", snap.Will)
	assert.Len(t, f.out.To(1, "rejected"), 1)
}

func TestRunner_ConnectDisconnect(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))

	require.NoError(t, f.runner.Disconnect(1))
	require.NoError(t, f.runner.Disconnect(9))
	snap := f.sync(t)
	assert.False(t, snap.Players[1].Connected)

	require.NoError(t, f.runner.Connect(1))
	snap = f.sync(t)
	assert.True(t, snap.Players[1].Connected)
}

func TestRunner_SnapshotUnknownPlayer(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))

	_, err := f.runner.Snapshot(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown player")
}

func TestRunner_StopDrainsQueue(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))

	require.NoError(t, f.runner.Submit(0, game.SaveWill{Text: "first"}))
	f.runner.Stop()

	select {
	case err := <-f.result:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	err := f.runner.Submit(0, game.SaveWill{Text: "late"})
	assert.True(t, IsStoppedError(err))
	_, err = f.runner.Snapshot(context.Background(), 0)
	assert.True(t, IsStoppedError(err))
}

func TestRunner_ContextCancel(t *testing.T) {
	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff))
	f.sync(t)

	f.cancel()
	select {
	case err := <-f.result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, IsStoppedError(f.runner.Tick(time.Second)))
}

func TestRunner_RecorderFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := zerolog.New(&lockedWriter{mu: &mu, w: &buf})
	failing := &recordingStats{err: errors.New("disk full")}

	f := startRunner(t, testSettings(game.RoleMafioso, game.RoleSheriff), WithLogger(logger), WithStatsRecorder(failing))

	f.sync(t)
	f.runner.Flush()

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, buf.String(), "record game start failed")
	assert.Contains(t, buf.String(), "disk full")
	assert.True(t, f.runner.Status().Started, "a failing recorder never stops the game")
}

func TestRunner_TickerDrivesPhases(t *testing.T) {
	settings := testSettings(game.RoleMafioso, game.RoleSheriff)
	settings.PhaseTimes = game.PhaseTimes{}
	for _, p := range []game.PhaseType{
		game.PhaseBriefing, game.PhaseObituary, game.PhaseDiscussion, game.PhaseNomination,
		game.PhaseDusk, game.PhaseNight,
	} {
		settings.PhaseTimes[p] = time.Millisecond
	}
	f := startRunner(t, settings, WithTickInterval(time.Millisecond))

	require.Eventually(t, func() bool {
		return f.runner.Status().Day >= 2
	}, 5*time.Second, 5*time.Millisecond)
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func TestRuntimeError_Helpers(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", newNotFoundError("abc"))
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsCapacityError(wrapped))
	assert.Equal(t, "GAME_NOT_FOUND: no such game (game=abc)", newNotFoundError("abc").Error())

	assert.True(t, IsCapacityError(newCapacityError(2)))
	assert.True(t, IsStoppedError(newStoppedError("x")))
	assert.False(t, IsStoppedError(errors.New("plain")))
}
