package detect

import (
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Engine runs detection over many series on a bounded worker pool.
//
// Engine holds no per-run state and is safe for concurrent use. Each series
// is scored independently; results are slotted by series index and sorted
// only after every task finishes, so output never depends on scheduling.
type Engine struct {
	workers int
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the maximum number of series scored concurrently.
//
// Default: runtime.GOMAXPROCS(0).
// Use WithWorkers(1) for strictly sequential execution. Values < 1 keep the
// default.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured pool size.
func (e *Engine) Workers() int {
	return e.workers
}

// Detect runs both detectors over rows and returns the merged, sorted list.
//
// Params are validated before any series is built. Empty input returns an
// empty list and no error.
func (e *Engine) Detect(rows []CostRow, p Params) ([]Anomaly, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	series, err := BuildSeries(rows, p.Grouping, p.Window)
	if err != nil {
		return nil, err
	}

	out := e.detectSeries(series, p)
	e.logger.Debug("detection complete",
		"grouping", p.Grouping.String(),
		"window_end", p.Window.End.Format(dateLayout),
		"window_days", p.Window.Days,
		"series", len(series),
		"anomalies", len(out),
	)
	return out, nil
}

// findings is the result slot for one series.
type findings struct {
	point   Anomaly
	trend   Anomaly
	isPoint bool
	isTrend bool
}

// detectSeries scores every series and merges the results. p must be valid.
func (e *Engine) detectSeries(series []GroupSeries, p Params) []Anomaly {
	slots := make([]findings, len(series))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range series {
		g.Go(func() error {
			s := series[i]
			var f findings
			f.point, f.isPoint = detectPoint(s, p)
			f.trend, f.isTrend = detectTrend(s, p)
			slots[i] = f
			return nil
		})
	}
	// Barrier: no task returns an error, Wait only synchronizes.
	_ = g.Wait()

	var point, trend []Anomaly
	for _, f := range slots {
		if f.isPoint {
			point = append(point, f.point)
		}
		if f.isTrend {
			trend = append(trend, f.trend)
		}
	}
	return Merge(point, trend)
}

// Detect runs detection with a default Engine.
func Detect(rows []CostRow, p Params) ([]Anomaly, error) {
	return New().Detect(rows, p)
}

const dateLayout = "2006-01-02"
