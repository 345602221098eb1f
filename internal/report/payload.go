package report

import (
	"fmt"

	"github.com/roach88/costwatch/internal/detect"
)

// Payload is the structured form of a report, shaped for JSON consumers.
type Payload struct {
	RunID        string            `json:"run_id"`
	GeneratedAt  string            `json:"generated_at"`
	Fingerprint  string            `json:"fingerprint"`
	AnomalyCount int               `json:"anomaly_count"`
	Anomalies    []AnomalyPayload  `json:"anomalies"`
	Parameters   ParametersPayload `json:"parameters"`
	Summary      string            `json:"summary"`
}

// AnomalyPayload is one anomaly. Metric is the z-score for point findings
// and the drift percentage for trend findings, unrounded.
type AnomalyPayload struct {
	UsageDate      string   `json:"usage_date"`
	WindowStart    string   `json:"window_start,omitempty"`
	GroupBy        string   `json:"group_by"`
	GroupValue     string   `json:"group_value"`
	Dimensions     []string `json:"dimensions"`
	Kind           string   `json:"kind"`
	Severity       string   `json:"severity"`
	Direction      string   `json:"direction"`
	Metric         float64  `json:"metric"`
	CurrentCost    float64  `json:"current_cost"`
	MedianCost     float64  `json:"median_cost"`
	MAD            float64  `json:"mad"`
	Slope          float64  `json:"slope"`
	BaselinePoints int      `json:"baseline_points"`
}

// ParametersPayload echoes the run settings.
type ParametersPayload struct {
	Days              int     `json:"days"`
	AsOf              string  `json:"as_of,omitempty"`
	GroupBy           string  `json:"group_by"`
	Sensitivity       string  `json:"sensitivity"`
	Threshold         float64 `json:"threshold"`
	DriftThresholdPct float64 `json:"drift_threshold_pct"`
	MinDailyCost      float64 `json:"min_daily_cost"`
	DataSource        string  `json:"data_source,omitempty"`
	ScanFrom          string  `json:"scan_from,omitempty"`
	ScanTo            string  `json:"scan_to,omitempty"`
}

// NewPayload converts r for JSON output.
func NewPayload(r Report) (Payload, error) {
	fingerprint, err := Fingerprint(r.Anomalies)
	if err != nil {
		return Payload{}, err
	}

	anomalies := make([]AnomalyPayload, len(r.Anomalies))
	for i, a := range r.Anomalies {
		anomalies[i] = anomalyPayload(a)
	}

	s := r.Settings
	params := ParametersPayload{
		Days:              s.WindowDays,
		GroupBy:           s.Grouping.String(),
		Sensitivity:       s.Sensitivity,
		Threshold:         s.Threshold,
		DriftThresholdPct: s.DriftThresholdPct,
		MinDailyCost:      s.MinDailyCost,
		DataSource:        s.DataSource,
	}
	if s.IsScan() {
		params.ScanFrom = formatDate(s.ScanStart)
		params.ScanTo = formatDate(s.ScanEnd)
	} else {
		params.AsOf = formatDate(s.WindowEnd)
	}

	return Payload{
		RunID:        r.RunID,
		GeneratedAt:  r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Fingerprint:  fingerprint,
		AnomalyCount: len(anomalies),
		Anomalies:    anomalies,
		Parameters:   params,
		Summary:      summary(r),
	}, nil
}

func anomalyPayload(a detect.Anomaly) AnomalyPayload {
	p := AnomalyPayload{
		UsageDate:      formatDate(a.Date),
		GroupBy:        a.Key.Grouping.String(),
		GroupValue:     a.Key.String(),
		Dimensions:     a.Key.Values(),
		Kind:           a.Kind.String(),
		Severity:       a.Severity.String(),
		Direction:      a.Direction.String(),
		Metric:         a.Metric,
		CurrentCost:    a.Baseline.Current,
		MedianCost:     a.Baseline.Median,
		MAD:            a.Baseline.MAD,
		Slope:          a.Baseline.Slope,
		BaselinePoints: a.Baseline.Points,
	}
	if a.Kind == detect.KindTrend {
		p.WindowStart = formatDate(a.WindowStart)
	}
	return p
}

func summary(r Report) string {
	n := len(r.Anomalies)
	noun := plural(n, "anomaly", "anomalies")
	s := r.Settings
	if s.IsScan() {
		return fmt.Sprintf("%d %s detected between %s and %s (sensitivity=%s).",
			n, noun, formatDate(s.ScanStart), formatDate(s.ScanEnd), s.Sensitivity)
	}
	return fmt.Sprintf("%d %s detected over the last %d days (sensitivity=%s).",
		n, noun, s.WindowDays, s.Sensitivity)
}
