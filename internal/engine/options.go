package engine

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTickInterval is how often a runner advances its phase timer.
	DefaultTickInterval = 250 * time.Millisecond

	// DefaultMaxGames bounds the number of games one Manager hosts.
	DefaultMaxGames = 64

	// DefaultEndedGameTTL is how long a finished game stays reachable for
	// snapshots before its runner stops.
	DefaultEndedGameTTL = 10 * time.Minute

	// hookTimeout bounds a single stats report.
	hookTimeout = 10 * time.Second
)

type options struct {
	ids          IDGenerator
	recorder     StatsRecorder
	log          zerolog.Logger
	now          func() time.Time
	tickInterval time.Duration
	maxGames     int
	endedTTL     time.Duration
	messageQuota int
}

func defaultOptions() options {
	return options{
		ids:          UUIDv7Generator{},
		recorder:     NopRecorder{},
		log:          zerolog.Nop(),
		now:          time.Now,
		tickInterval: DefaultTickInterval,
		maxGames:     DefaultMaxGames,
		endedTTL:     DefaultEndedGameTTL,
		messageQuota: DefaultMessageQuota,
	}
}

// Option configures a Runner or a Manager. A Manager hands its options to
// every runner it creates.
type Option func(*options)

// WithIDGenerator sets the source of game ids. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithStatsRecorder sets where game outcomes are reported. Default: NopRecorder.
func WithStatsRecorder(r StatsRecorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithLogger sets the logger. Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithNow sets the wall clock used to timestamp stats reports.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTickInterval sets the phase timer resolution. Zero disables the
// ticker; the game then only advances on explicit Tick calls.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		o.tickInterval = d
	}
}

// WithMaxGames bounds the number of concurrently hosted games.
func WithMaxGames(n int) Option {
	return func(o *options) {
		o.maxGames = n
	}
}

// WithEndedGameTTL sets how long a finished game is kept.
func WithEndedGameTTL(d time.Duration) Option {
	return func(o *options) {
		o.endedTTL = d
	}
}

// WithMessageQuota sets how many client messages a player may send per
// phase. Zero disables the quota.
func WithMessageQuota(n int) Option {
	return func(o *options) {
		o.messageQuota = n
	}
}
