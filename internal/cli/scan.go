package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/costwatch/internal/detect"
	"github.com/roach88/costwatch/internal/report"
	"github.com/roach88/costwatch/internal/store"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	DetectionOptions
	From string
	To   string
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{DetectionOptions: DetectionOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a historical date range for anomalies",
		Long: `Run anomaly detection for every day in a date range.

Each day in --from..--to becomes the end of the rolling window in turn.
A group flagged on consecutive days is reported once, at the day its
metric was strongest.

Examples:
  costwatch scan --from 2025-01-01 --to 2025-01-31
  costwatch scan --from 2024-12-01 --to 2024-12-31 --group-by account --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.From, "from", "", "first day to scan, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&opts.To, "to", "", "last day to scan, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runScan(opts *ScanOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	logger := f.Logger()

	cfg, err := loadConfig(opts.RootOptions, f)
	if err != nil {
		return err
	}

	from, err := parseDate("from", opts.From)
	if err != nil {
		return invalidFlag(f, err)
	}
	to, err := parseDate("to", opts.To)
	if err != nil {
		return invalidFlag(f, err)
	}

	if from.After(to) {
		return invalidFlag(f, fmt.Errorf("--from (%s) must not be after --to (%s)", opts.From, opts.To))
	}

	req, err := opts.resolve(cmd, cfg, to)
	if err != nil {
		return invalidFlag(f, err)
	}
	sp := detect.ScanParams{Start: from, End: to, Params: req.params}

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
		Start:      detect.Window{End: from, Days: req.params.Window.Days}.Start(),
		End:        to,
		DataSource: opts.Source,
	})
	if err != nil {
		_ = f.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read cost rows", err)
	}

	result, err := req.engine(logger).Scan(rows, sp)
	if err != nil {
		return invalidFlag(f, err)
	}
	logger.Debug("scan finished", "days", result.DaysScanned, "anomalies", len(result.Anomalies))

	settings := req.settings
	settings.ScanStart = result.Start
	settings.ScanEnd = result.End
	if err := f.Report(report.New(settings, result.Anomalies)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}
	return req.checkFailOn(result.Anomalies)
}
