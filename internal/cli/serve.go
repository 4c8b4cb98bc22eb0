package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/roach88/duskfall/internal/config"
	"github.com/roach88/duskfall/internal/engine"
	"github.com/roach88/duskfall/internal/store"
	"github.com/roach88/duskfall/internal/transport"
)

// shutdownTimeout bounds how long open requests may take once the server
// is asked to stop.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command. Set flags override the
// DUSKFALL_* environment.
type ServeOptions struct {
	*RootOptions
	Addr         string
	DBPath       string
	TickInterval time.Duration
	MaxGames     int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host games over HTTP and socket.io",
		Long: `Start the game server.

Configuration comes from DUSKFALL_* environment variables; flags override
them. Finished games are recorded in the SQLite stats database.

Example:
  duskfall serve --addr :8080 --db ./duskfall.db
  DUSKFALL_LOG_FORMAT=json duskfall serve`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default $DUSKFALL_ADDR or :8080)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite stats database")
	cmd.Flags().DurationVar(&opts.TickInterval, "tick", 0, "phase timer resolution")
	cmd.Flags().IntVar(&opts.MaxGames, "max-games", 0, "maximum concurrent games")

	return cmd
}

// serveConfig merges the environment with the flags that were set.
func serveConfig(opts *ServeOptions, cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.Addr
	}
	if flags.Changed("db") {
		cfg.DBPath = opts.DBPath
	}
	if flags.Changed("tick") {
		cfg.TickInterval = opts.TickInterval
	}
	if flags.Changed("max-games") {
		cfg.MaxGames = opts.MaxGames
	}
	if opts.Verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	return cfg, cfg.Validate()
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := serveConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	level, _ := cfg.Level()
	logger := NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, level)
	log.Logger = logger
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing database")
		}
	}()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := transport.NewHub()
	games := engine.NewManager(ctx, hub,
		engine.WithLogger(logger),
		engine.WithTickInterval(cfg.TickInterval),
		engine.WithMaxGames(cfg.MaxGames),
		engine.WithEndedGameTTL(cfg.EndedGameTTL),
		engine.WithMessageQuota(cfg.MessageQuota),
		engine.WithStatsRecorder(engine.NewStoreRecorder(st)),
	)

	srv := transport.New(games, hub, st, cfg.CORSOrigin)
	router := srv.Router()
	io := srv.Mount(router)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		games.Shutdown()
		io.Close()
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}
	httpSrv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- httpSrv.Serve(ln) }()

	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("db", cfg.DBPath).
		Dur("tick", cfg.TickInterval).
		Int("max_games", cfg.MaxGames).
		Msg("server listening")
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", ln.Addr())

	var serveErr error
	select {
	case err := <-errc:
		serveErr = err
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if err := io.Close(); err != nil {
		logger.Error().Err(err).Msg("socket.io shutdown")
	}
	games.Shutdown()

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "server error", serveErr)
	}
	logger.Info().Msg("server stopped")
	return nil
}
