package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/duskfall/internal/settings"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Players int // also check the role list against this many players
}

// SettingsReport is the validation outcome of one settings file.
type SettingsReport struct {
	Path   string                     `json:"path"`
	Valid  bool                       `json:"valid"`
	Roles  int                        `json:"roles,omitempty"`
	Errors []settings.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <settings-file>...",
		Short: "Check game settings files",
		Long: `Validate game settings written in YAML or CUE.

Every problem in a file is reported with its code and, where known, its
line. With --players the role list is also checked against a roster of
that size.

Examples:
  duskfall validate classic.yaml
  duskfall validate classic.cue --players 7`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Players, "players", 0, "number of players to check the role list against")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reports := make([]SettingsReport, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		r := validateFile(path, opts.Players)
		if !r.Valid {
			invalid++
		}
		reports = append(reports, r)
	}

	msg := fmt.Sprintf("%d of %d settings file(s) invalid", invalid, len(paths))
	if f.JSON() {
		if invalid > 0 {
			if err := f.Failure(ErrCodeInvalidSettings, msg, reports); err != nil {
				return err
			}
			return NewExitError(ExitFailure, msg)
		}
		return f.Success(reports)
	}

	w := f.Writer
	for _, r := range reports {
		if r.Valid {
			fmt.Fprintf(w, "✓ %s (%d roles)\n", r.Path, r.Roles)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", r.Path)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
	}
	if invalid > 0 {
		return NewExitError(ExitFailure, msg)
	}
	return nil
}

func validateFile(path string, players int) SettingsReport {
	r := SettingsReport{Path: path}
	file, err := settings.Load(path)
	if err == nil && players > 0 {
		_, err = file.GameFor(players)
	}
	if err != nil {
		var serr *settings.Error
		if errors.As(err, &serr) {
			r.Errors = serr.Errors
		} else {
			r.Errors = []settings.ValidationError{{Field: "settings", Message: err.Error(), Code: settings.ErrCodeParse}}
		}
		return r
	}
	r.Valid = true
	r.Roles = len(file.Roles)
	return r
}
