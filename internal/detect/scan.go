package detect

import (
	"math"
	"time"
)

// ScanParams configures a historical scan. Params.Window.End is ignored; each
// scanned day becomes the window end in turn.
type ScanParams struct {
	Start  time.Time
	End    time.Time
	Params Params
}

// ScanResult holds the deduplicated findings of a scan.
type ScanResult struct {
	Start       time.Time
	End         time.Time
	DaysScanned int
	Anomalies   []Anomaly
}

// streakKey identifies a run of consecutive flagged days.
type streakKey struct {
	key  GroupKey
	kind Kind
}

// Scan runs detection once per day from sp.Start to sp.End inclusive.
//
// A (GroupKey, Kind) pair flagged on consecutive days forms a streak;
// each streak contributes its single strongest finding (largest |metric|,
// earliest on ties). A streak ends on the first day the pair is not flagged.
// The result uses the same ordering as Detect.
func (e *Engine) Scan(rows []CostRow, sp ScanParams) (ScanResult, error) {
	start, end := Day(sp.Start), Day(sp.End)
	if start.IsZero() || end.IsZero() {
		return ScanResult{}, newConfigError("scan", "scan start and end dates are required")
	}
	if start.After(end) {
		return ScanResult{}, newConfigError("scan", "scan start (%s) must be <= scan end (%s)",
			start.Format(dateLayout), end.Format(dateLayout))
	}

	p := sp.Params
	p.Window.End = start
	if err := p.Validate(); err != nil {
		return ScanResult{}, err
	}

	active := make(map[streakKey]Anomaly)
	var order []streakKey
	finished := []Anomaly{}
	days := 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days++
		p.Window.End = day
		series, err := BuildSeries(rows, p.Grouping, p.Window)
		if err != nil {
			return ScanResult{}, err
		}

		seen := make(map[streakKey]bool)
		for _, a := range e.detectSeries(series, p) {
			sk := streakKey{key: a.Key, kind: a.Kind}
			seen[sk] = true
			best, ok := active[sk]
			if !ok {
				order = append(order, sk)
				active[sk] = a
				continue
			}
			if stronger(a, best) {
				active[sk] = a
			}
		}

		kept := order[:0]
		for _, sk := range order {
			if seen[sk] {
				kept = append(kept, sk)
				continue
			}
			finished = append(finished, active[sk])
			delete(active, sk)
		}
		order = kept
	}
	for _, sk := range order {
		finished = append(finished, active[sk])
	}

	sortAnomalies(finished)
	e.logger.Debug("scan complete",
		"start", start.Format(dateLayout),
		"end", end.Format(dateLayout),
		"days", days,
		"anomalies", len(finished),
	)

	return ScanResult{
		Start:       start,
		End:         end,
		DaysScanned: days,
		Anomalies:   finished,
	}, nil
}

func stronger(a, b Anomaly) bool {
	return math.Abs(a.Metric) > math.Abs(b.Metric)
}
