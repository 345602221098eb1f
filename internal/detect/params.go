package detect

import (
	"math"
	"time"
)

// Defaults used by callers that do not override them.
const (
	DefaultWindowDays        = 14
	DefaultMinDailyCost      = 1.0
	DefaultDriftThresholdPct = 20.0
	DefaultSensitivity       = "medium"
)

// Minimum window and history sizes.
const (
	MinWindowDays   = 3
	MinPointHistory = 3
	MinTrendHistory = 5
)

// sensitivityThresholds maps caller-facing presets to z-score thresholds.
var sensitivityThresholds = map[string]float64{
	"low":    3.0,
	"medium": 2.5,
	"high":   2.0,
}

// Sensitivities lists the presets from least to most sensitive.
var Sensitivities = []string{"low", "medium", "high"}

// SensitivityThreshold returns the z-score threshold for a preset name.
func SensitivityThreshold(name string) (float64, bool) {
	t, ok := sensitivityThresholds[name]
	return t, ok
}

// Window is the trailing span of days ending on End (inclusive).
type Window struct {
	End  time.Time
	Days int
}

// Start returns the first day in the window.
func (w Window) Start() time.Time {
	return Day(w.End).AddDate(0, 0, -(w.Days - 1))
}

// Contains reports whether t falls on a day within the window.
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(w.Start()) && !d.After(Day(w.End))
}

// Params is the explicit parameter bundle for one detection run.
type Params struct {
	Window   Window
	Grouping Grouping

	// Threshold is the minimum |z| flagged by the point detector.
	Threshold float64

	// MinDailyCost is the spend floor below which a day is ignored.
	MinDailyCost float64

	// DriftThresholdPct is the minimum |drift| in percent flagged by the
	// trend detector.
	DriftThresholdPct float64
}

// Validate checks p before any per-group computation.
func (p Params) Validate() error {
	if p.Window.End.IsZero() {
		return newConfigError("window.end", "window end date is required")
	}
	if p.Window.Days < MinWindowDays {
		return newConfigError("window.days", "window must be at least %d days, got %d", MinWindowDays, p.Window.Days)
	}
	if !(p.Threshold > 0) || math.IsInf(p.Threshold, 0) {
		return newConfigError("threshold", "threshold must be > 0, got %v", p.Threshold)
	}
	if !(p.DriftThresholdPct > 0) || math.IsInf(p.DriftThresholdPct, 0) {
		return newConfigError("drift_threshold_pct", "drift threshold must be > 0, got %v", p.DriftThresholdPct)
	}
	if !(p.MinDailyCost >= 0) || math.IsInf(p.MinDailyCost, 0) {
		return newConfigError("min_daily_cost", "min daily cost must be >= 0, got %v", p.MinDailyCost)
	}
	if !p.Grouping.Valid() {
		return newGroupingError("grouping %d must be one of %s", int(p.Grouping), groupingNames())
	}
	return nil
}
