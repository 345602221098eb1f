package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/costwatch/internal/config"
	"github.com/roach88/costwatch/internal/detect"
	"github.com/roach88/costwatch/internal/report"
	"github.com/roach88/costwatch/internal/store"
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeNoData      = "NO_DATA"
	ErrCodeConfig      = "CONFIG_ERROR"
	ErrCodeInvalidFlag = "INVALID_FLAG"
	ErrCodeDatabase    = "DATABASE_ERROR"
)

// DetectionOptions holds the flags shared by anomalies and scan.
// Flags left unset fall back to the config file.
type DetectionOptions struct {
	*RootOptions
	Database       string
	Days           int
	Sensitivity    string
	GroupBy        string
	DriftThreshold float64
	MinCost        float64
	Source         string
	Workers        int
	FailOn         string
}

func (o *DetectionOptions) addFlags(cmd *cobra.Command) {
	defaults := config.Default()
	f := cmd.Flags()
	f.StringVar(&o.Database, "db", "", "path to SQLite database (default from config)")
	f.IntVar(&o.Days, "days", defaults.Anomaly.RollingWindowDays, "rolling window size in days")
	f.StringVar(&o.Sensitivity, "sensitivity", defaults.Anomaly.Sensitivity,
		"sensitivity: "+strings.Join(detect.Sensitivities, ", "))
	f.StringVar(&o.GroupBy, "group-by", detect.GroupByService.String(),
		"group by: "+groupingChoices())
	f.Float64Var(&o.DriftThreshold, "drift-threshold", defaults.Anomaly.DriftThresholdPct,
		"drift threshold in percent")
	f.Float64Var(&o.MinCost, "min-cost", defaults.Anomaly.MinDailyCost,
		"minimum daily cost to consider, in dollars")
	f.StringVar(&o.Source, "source", "", "data source filter: cur, cost_explorer (default all)")
	f.IntVar(&o.Workers, "workers", defaults.Anomaly.Workers, "detection workers (0 = GOMAXPROCS)")
	f.StringVar(&o.FailOn, "fail-on", "", "exit 1 when an anomaly at this severity or worse is found: critical, warning, info")
}

func groupingChoices() string {
	names := make([]string, len(detect.Groupings))
	for i, g := range detect.Groupings {
		names[i] = g.String()
	}
	return strings.Join(names, ", ")
}

// resolved is a detection request after merging flags over config.
type resolved struct {
	dbPath   string
	params   detect.Params
	settings report.Settings
	workers  int
	failOn   detect.Severity // 0 disables
}

// resolve validates flags and fills unset ones from cfg.
// asOf is the window end for a single run, or the scan end for a scan.
func (o *DetectionOptions) resolve(cmd *cobra.Command, cfg config.Config, asOf time.Time) (resolved, error) {
	flags := cmd.Flags()
	pick := func(name string) bool { return flags.Changed(name) }

	days := cfg.Anomaly.RollingWindowDays
	if pick("days") {
		days = o.Days
	}
	sensitivity := cfg.Anomaly.Sensitivity
	if pick("sensitivity") {
		sensitivity = o.Sensitivity
	}
	drift := cfg.Anomaly.DriftThresholdPct
	if pick("drift-threshold") {
		drift = o.DriftThreshold
	}
	minCost := cfg.Anomaly.MinDailyCost
	if pick("min-cost") {
		minCost = o.MinCost
	}
	workers := cfg.Anomaly.Workers
	if pick("workers") {
		workers = o.Workers
	}
	dbPath := cfg.Database.Path
	if o.Database != "" {
		dbPath = o.Database
	}

	threshold, ok := detect.SensitivityThreshold(sensitivity)
	if !ok {
		return resolved{}, fmt.Errorf("--sensitivity must be one of: %s", strings.Join(detect.Sensitivities, ", "))
	}
	grouping, err := detect.ParseGrouping(o.GroupBy)
	if err != nil {
		return resolved{}, fmt.Errorf("--group-by must be one of: %s", groupingChoices())
	}
	switch o.Source {
	case "", store.SourceCUR, store.SourceCostExplorer:
	default:
		return resolved{}, fmt.Errorf("--source must be one of: %s, %s", store.SourceCUR, store.SourceCostExplorer)
	}
	if workers < 0 {
		return resolved{}, fmt.Errorf("--workers must not be negative")
	}
	failOn, err := parseFailOn(o.FailOn)
	if err != nil {
		return resolved{}, err
	}

	params := detect.Params{
		Window:            detect.Window{End: asOf, Days: days},
		Grouping:          grouping,
		Threshold:         threshold,
		MinDailyCost:      minCost,
		DriftThresholdPct: drift,
	}
	if err := params.Validate(); err != nil {
		return resolved{}, err
	}

	return resolved{
		dbPath:  dbPath,
		params:  params,
		workers: workers,
		failOn:  failOn,
		settings: report.Settings{
			WindowDays:        days,
			WindowEnd:         asOf,
			Grouping:          grouping,
			Sensitivity:       sensitivity,
			Threshold:         threshold,
			DriftThresholdPct: drift,
			MinDailyCost:      minCost,
			DataSource:        o.Source,
		},
	}, nil
}

func parseFailOn(s string) (detect.Severity, error) {
	switch s {
	case "":
		return 0, nil
	case "critical":
		return detect.SeverityCritical, nil
	case "warning":
		return detect.SeverityWarning, nil
	case "info":
		return detect.SeverityInfo, nil
	default:
		return 0, fmt.Errorf("--fail-on must be one of: critical, warning, info")
	}
}

// engine builds a detection engine for r.
func (r resolved) engine(logger *slog.Logger) *detect.Engine {
	opts := []detect.Option{detect.WithLogger(logger)}
	if r.workers > 0 {
		opts = append(opts, detect.WithWorkers(r.workers))
	}
	return detect.New(opts...)
}

// checkFailOn returns an ExitFailure error when anomalies reach r.failOn.
func (r resolved) checkFailOn(anomalies []detect.Anomaly) error {
	if r.failOn == 0 {
		return nil
	}
	for _, a := range anomalies {
		if a.Severity <= r.failOn {
			return NewExitError(ExitFailure,
				fmt.Sprintf("%s anomaly found: %s %s", a.Severity, a.Key, a.Kind))
		}
	}
	return nil
}

// parseDate parses a YYYY-MM-DD flag value.
func parseDate(flag, value string) (time.Time, error) {
	t, err := time.Parse(store.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be a date in YYYY-MM-DD form, got %q", flag, value)
	}
	return t, nil
}

// closeStore closes st, logging any error.
func closeStore(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newFormatter(root *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    root.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   root.Verbose,
	}
}

// loadConfig reads the config file named by --config (or the default file).
func loadConfig(root *RootOptions, f *OutputFormatter) (config.Config, error) {
	cfg, err := config.Load(root.ConfigPath)
	if err != nil {
		_ = f.Error(ErrCodeConfig, err.Error(), nil)
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// openStore opens the database, creating it if needed.
func openStore(path string, f *OutputFormatter, logger *slog.Logger) (*store.Store, error) {
	logger.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		_ = f.Error(ErrCodeDatabase, err.Error(), map[string]string{"path": path})
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// requireData fails with ExitFailure when the summary table is empty and
// logs the stored date range otherwise.
func requireData(ctx context.Context, st *store.Store, f *OutputFormatter, logger *slog.Logger) error {
	n, err := st.CountDailyRows(ctx)
	if err != nil {
		_ = f.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to count cost rows", err)
	}
	if n == 0 {
		_ = f.Error(ErrCodeNoData, "no cost data found; load CUR data or run \"costwatch seed\" first", nil)
		return NewExitError(ExitFailure, "no cost data found")
	}

	first, last, ok, err := st.DateRange(ctx)
	if err != nil {
		_ = f.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read date range", err)
	}
	if ok {
		logger.Debug("cost data available",
			"rows", n,
			"first", first.Format(store.DateLayout),
			"last", last.Format(store.DateLayout),
		)
	}
	return nil
}

// invalidFlag reports a flag error and returns an ExitCommandError.
func invalidFlag(f *OutputFormatter, err error) error {
	code := ErrCodeInvalidFlag
	var detectErr *detect.Error
	if errors.As(err, &detectErr) {
		code = string(detectErr.Code)
	}
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid arguments", err)
}
