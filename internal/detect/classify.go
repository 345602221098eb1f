package detect

import (
	"cmp"
	"math"
	"slices"
)

// Severity bands. The two metrics live on different scales, so each kind has
// its own bands.
const (
	pointCriticalZ  = 4.0
	pointWarningZ   = 3.0
	trendCriticalPc = 100.0
	trendWarningPc  = 50.0
)

// ClassifyPoint returns the severity of a modified z-score.
func ClassifyPoint(z float64) Severity {
	abs := math.Abs(z)
	switch {
	case abs > pointCriticalZ:
		return SeverityCritical
	case abs > pointWarningZ:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// ClassifyTrend returns the severity of a drift percentage.
func ClassifyTrend(driftPct float64) Severity {
	abs := math.Abs(driftPct)
	switch {
	case abs > trendCriticalPc:
		return SeverityCritical
	case abs > trendWarningPc:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// classify sets a.Severity from its metric and kind.
func classify(a Anomaly) Anomaly {
	switch a.Kind {
	case KindPoint:
		a.Severity = ClassifyPoint(a.Metric)
	case KindTrend:
		a.Severity = ClassifyTrend(a.Metric)
	}
	return a
}

// Merge classifies point and trend findings and returns them as one list in
// final order:
//
//  1. severity (critical, warning, info)
//  2. kind (point before trend; magnitudes are never compared across kinds)
//  3. |metric| descending
//  4. GroupKey ascending
//  5. date ascending
//
// The inputs are not modified.
func Merge(point, trend []Anomaly) []Anomaly {
	out := make([]Anomaly, 0, len(point)+len(trend))
	for _, a := range point {
		out = append(out, classify(a))
	}
	for _, a := range trend {
		out = append(out, classify(a))
	}
	sortAnomalies(out)
	return out
}

func sortAnomalies(as []Anomaly) {
	slices.SortStableFunc(as, compareAnomalies)
}

func compareAnomalies(a, b Anomaly) int {
	if c := cmp.Compare(a.Severity, b.Severity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(math.Abs(b.Metric), math.Abs(a.Metric)); c != 0 {
		return c
	}
	if c := a.Key.Compare(b.Key); c != 0 {
		return c
	}
	return a.Date.Compare(b.Date)
}
