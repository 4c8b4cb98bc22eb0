package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/duskfall/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// StatsReport is everything the stats command prints.
type StatsReport struct {
	Conclusions []store.ConclusionStat `json:"conclusions"`
	Roles       []store.RoleStat       `json:"roles"`
	Recent      []store.GameRecord     `json:"recent"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded games",
		Long: `Print win rates and recent games from a stats database written by
duskfall serve.

Example:
  duskfall stats --db ./duskfall.db --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "number of recent games to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Opening creates missing files; a typo should not leave an empty
	// database behind.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := collectStats(ctx, st, opts.Limit)
	if err != nil {
		if f.JSON() {
			_ = f.Error(ErrCodeDatabase, err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "failed to read stats", err)
	}

	if f.JSON() {
		return f.Success(report)
	}
	writeStatsText(f, report)
	return nil
}

func collectStats(ctx context.Context, st *store.Store, limit int) (StatsReport, error) {
	var (
		r   StatsReport
		err error
	)
	if r.Conclusions, err = st.ConclusionStats(ctx); err != nil {
		return r, err
	}
	if r.Roles, err = st.RoleStats(ctx); err != nil {
		return r, err
	}
	if r.Recent, err = st.ListGames(ctx, limit); err != nil {
		return r, err
	}
	return r, nil
}

func writeStatsText(f *OutputFormatter, r StatsReport) {
	w := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if len(r.Conclusions) == 0 {
		fmt.Fprintln(w, "No finished games recorded.")
	} else {
		fmt.Fprintln(w, "CONCLUSION\tGAMES")
		for _, c := range r.Conclusions {
			fmt.Fprintf(w, "%s\t%d\n", c.Conclusion, c.Games)
		}
	}

	if len(r.Roles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "ROLE\tPLAYED\tWON\tWIN RATE")
		for _, s := range r.Roles {
			rate := 0.0
			if s.Played > 0 {
				rate = 100 * float64(s.Won) / float64(s.Played)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\n", s.Role, s.Played, s.Won, rate)
		}
	}

	if len(r.Recent) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "GAME\tSTARTED\tDAY\tCONCLUSION\tPLAYERS")
		for _, g := range r.Recent {
			conclusion := g.Conclusion
			if !g.Ended() {
				conclusion = "(running)"
			}
			names := make([]string, 0, len(g.Players))
			for _, p := range g.Players {
				names = append(names, p.Name)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", g.ID, g.StartedAt.UTC().Format(time.RFC3339), g.Day, conclusion, strings.Join(names, ","))
		}
	}
}
