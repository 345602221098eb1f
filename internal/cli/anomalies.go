package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/costwatch/internal/detect"
	"github.com/roach88/costwatch/internal/report"
	"github.com/roach88/costwatch/internal/store"
)

// AnomaliesOptions holds flags for the anomalies command.
type AnomaliesOptions struct {
	DetectionOptions
	AsOf string
}

// NewAnomaliesCommand creates the anomalies command.
func NewAnomaliesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnomaliesOptions{DetectionOptions: DetectionOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Detect cost anomalies in the trailing window",
		Long: `Detect cost anomalies over a trailing window of daily costs.

Each group's latest day is scored against the rest of the window with a
robust (median/MAD) z-score, and the whole window is checked for gradual
drift with a Theil-Sen slope. Findings are ranked by severity.

Examples:
  costwatch anomalies
  costwatch anomalies --db ./data/costs.db --days 30 --group-by service+account
  costwatch anomalies --sensitivity high --as-of 2025-01-15 --format json
  costwatch anomalies --fail-on critical`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnomalies(opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.AsOf, "as-of", "", "last day of the window, YYYY-MM-DD (default today)")

	return cmd
}

func runAnomalies(opts *AnomaliesOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	logger := f.Logger()

	cfg, err := loadConfig(opts.RootOptions, f)
	if err != nil {
		return err
	}

	asOf := detect.Day(opts.now())
	if opts.AsOf != "" {
		asOf, err = parseDate("as-of", opts.AsOf)
		if err != nil {
			return invalidFlag(f, err)
		}
	}

	req, err := opts.resolve(cmd, cfg, asOf)
	if err != nil {
		return invalidFlag(f, err)
	}

	st, err := openStore(req.dbPath, f, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	ctx := commandContext(cmd)
	if err := requireData(ctx, st, f, logger); err != nil {
		return err
	}

	rows, err := st.ReadCostRows(ctx, store.RowQuery{
		Start:      req.params.Window.Start(),
		End:        asOf,
		DataSource: opts.Source,
	})
	if err != nil {
		_ = f.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read cost rows", err)
	}
	logger.Debug("cost rows loaded", "rows", len(rows), "from", req.params.Window.Start().Format(store.DateLayout))

	anomalies, err := req.engine(logger).Detect(rows, req.params)
	if err != nil {
		return invalidFlag(f, err)
	}

	if err := f.Report(report.New(req.settings, anomalies)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}
	return req.checkFailOn(anomalies)
}
