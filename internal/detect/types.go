package detect

import (
	"cmp"
	"strings"
	"time"
)

// unknownValue replaces empty dimension values in group keys.
const unknownValue = "unknown"

// CostRow is one row of the input contract: a day's cost for a single
// (service, account, region) combination. Rows are expected to be already
// restricted to usage line items.
type CostRow struct {
	Date    time.Time
	Service string
	Account string
	Region  string
	Cost    float64
}

// DailyCostPoint is a single day's cost within a series.
type DailyCostPoint struct {
	Date time.Time
	Cost float64
}

// GroupKey identifies a series by the values of its grouping dimensions.
// GroupKey is comparable and may be used as a map key.
type GroupKey struct {
	Grouping Grouping
	Parts    [maxDimensions]string
}

// NewGroupKey builds a key for g from dimension values in g's order.
// Missing or empty values become "unknown".
func NewGroupKey(g Grouping, values ...string) GroupKey {
	k := GroupKey{Grouping: g}
	for i := range g.Dimensions() {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		if v == "" {
			v = unknownValue
		}
		k.Parts[i] = v
	}
	return k
}

func keyForRow(g Grouping, r CostRow) GroupKey {
	dims := g.Dimensions()
	values := make([]string, len(dims))
	for i, d := range dims {
		values[i] = d.value(r)
	}
	return NewGroupKey(g, values...)
}

// Values returns the dimension values in grouping order.
func (k GroupKey) Values() []string {
	n := len(k.Grouping.Dimensions())
	out := make([]string, n)
	copy(out, k.Parts[:n])
	return out
}

// String renders the key as "AmazonEC2 / 111111111111".
func (k GroupKey) String() string {
	return strings.Join(k.Values(), " / ")
}

// Compare orders keys by grouping, then lexicographically over components.
func (k GroupKey) Compare(other GroupKey) int {
	if c := cmp.Compare(k.Grouping, other.Grouping); c != 0 {
		return c
	}
	for i := range k.Parts {
		if c := strings.Compare(k.Parts[i], other.Parts[i]); c != 0 {
			return c
		}
	}
	return 0
}

// GroupSeries is the chronologically ordered daily cost series of one group.
// Dates are strictly increasing; missing days are absent, not zero.
type GroupSeries struct {
	Key    GroupKey
	Points []DailyCostPoint
}

// Costs returns the cost values in chronological order.
func (s GroupSeries) Costs() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Cost
	}
	return out
}

// Kind distinguishes the detector that produced an anomaly.
type Kind int

const (
	KindPoint Kind = iota + 1
	KindTrend
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindTrend:
		return "trend"
	default:
		return "unknown"
	}
}

// Direction is the sign of an anomaly.
type Direction int

const (
	DirectionSpike Direction = iota + 1
	DirectionDrop
	DirectionDriftUp
	DirectionDriftDown
)

func (d Direction) String() string {
	switch d {
	case DirectionSpike:
		return "spike"
	case DirectionDrop:
		return "drop"
	case DirectionDriftUp:
		return "drift_up"
	case DirectionDriftDown:
		return "drift_down"
	default:
		return "unknown"
	}
}

// Severity is the three-level ranking of an anomaly.
// Lower values rank first.
type Severity int

const (
	SeverityCritical Severity = iota + 1
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Baseline holds the summary statistics behind a decision.
type Baseline struct {
	// Current is the cost of the last day in the series.
	Current float64
	// Median is the baseline median (point) or the series median (trend).
	Median float64
	// MAD is the baseline median absolute deviation. Point only.
	MAD float64
	// Slope is the Theil-Sen slope in cost per day. Trend only.
	Slope float64
	// Points is the number of days that contributed.
	Points int
}

// Anomaly is a single finding.
//
// For KindPoint, Date is the flagged day and Metric the modified z-score.
// For KindTrend, Date is the window's end, WindowStart its first day, and
// Metric the drift in percent (87.5 means 87.5%).
type Anomaly struct {
	Key         GroupKey
	Kind        Kind
	Date        time.Time
	WindowStart time.Time
	Metric      float64
	Direction   Direction
	Severity    Severity
	Baseline    Baseline
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
