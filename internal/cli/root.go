package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
)

// Clock supplies the current time for --as-of defaults.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Clock overrides the wall clock (for testing). Nil means time.Now.
	Clock Clock
}

func (o *RootOptions) now() time.Time {
	if o.Clock == nil {
		return systemClock{}.Now()
	}
	return o.Clock.Now()
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the costwatch CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "costwatch",
		Short: "costwatch - AWS cost anomaly detection",
		Long: `Detect spikes, drops and gradual drift in AWS daily cost data.

Costs are read from a local SQLite store populated from CUR or Cost Explorer
exports (or from "costwatch seed" for a synthetic dataset).`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config YAML (default ./costwatch.yaml if present)")

	cmd.AddCommand(NewAnomaliesCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
