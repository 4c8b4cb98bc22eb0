package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/duskfall/internal/harness"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Filter     string // scenario filter (glob pattern), directories only
	Transcript bool   // print the transcript of a single scenario
}

// ScenarioReport is the JSON output for a single scenario.
type ScenarioReport struct {
	Name   string          `json:"name"`
	Result *harness.Result `json:"result"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml|dir>",
		Short: "Play scripted games",
		Long: `Run scenario files against the game engine.

A scenario seats a roster, feeds scripted inputs and checks assertions
about the packets players received and the final outcome. Given a
directory, every .yaml and .yml file in it is run.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  duskfall simulate ./scenarios/mafioso_kills_sheriff.yaml --transcript
  duskfall simulate ./scenarios --filter "night_*"
  duskfall simulate ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().BoolVar(&opts.Transcript, "transcript", false, "print the game transcript")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	info, err := os.Stat(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario path not found", err)
	}

	var hopts []harness.Option
	if opts.Verbose {
		hopts = append(hopts, harness.WithLogger(NewLogger(cmd.ErrOrStderr(), "console", zerolog.DebugLevel)))
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if info.IsDir() {
		return simulateDir(ctx, f, opts, path, hopts)
	}
	return simulateFile(ctx, f, opts, path, hopts)
}

func simulateFile(ctx context.Context, f *OutputFormatter, opts *SimulateOptions, path string, hopts []harness.Option) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	f.VerboseLog("running %s: %s", scenario.Name, scenario.Description)

	result, err := harness.Run(ctx, scenario, hopts...)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("scenario %s failed to run", scenario.Name), err)
	}

	if f.JSON() {
		report := ScenarioReport{Name: scenario.Name, Result: result}
		if !result.Pass {
			if err := f.Failure(ErrCodeScenarioFailed, fmt.Sprintf("scenario %s failed", scenario.Name), report); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
		}
		return f.Success(report)
	}

	w := f.Writer
	if opts.Transcript {
		w.Write(harness.FormatTranscript(scenario.Name, result))
		fmt.Fprintln(w)
	}
	if !result.Pass {
		fmt.Fprintf(w, "✗ %s\n", scenario.Name)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	fmt.Fprintf(w, "✓ %s\n", scenario.Name)
	return nil
}

func simulateDir(ctx context.Context, f *OutputFormatter, opts *SimulateOptions, dir string, hopts []harness.Option) error {
	paths, err := harness.FindScenarios(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	paths, err = filterScenarios(paths, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	f.VerboseLog("running %d scenario(s) from %s", len(paths), dir)

	result := harness.RunSuite(ctx, paths, hopts...)
	msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)

	if f.JSON() {
		if result.Failed > 0 {
			if err := f.Failure(ErrCodeScenarioFailed, msg, result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, msg)
		}
		return f.Success(result)
	}

	w := f.Writer
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}
	for _, fail := range result.Failures {
		fmt.Fprintf(w, "✗ %s\n  %s\n", fail.ScenarioPath, fail.Error)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, msg)
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

// filterScenarios keeps the paths whose base name, without extension,
// matches the glob pattern.
func filterScenarios(paths []string, pattern string) ([]string, error) {
	if pattern == "" {
		return paths, nil
	}
	var out []string
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}
