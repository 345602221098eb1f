package detect

import "math"

// detectTrend fits a Theil-Sen slope over s and expresses the total change
// across the window as a percentage of the series median.
//
// Series with a median at or below the spend floor are skipped; their drift
// percentage is either noise or undefined.
func detectTrend(s GroupSeries, p Params) (Anomaly, bool) {
	n := len(s.Points)
	if n < MinTrendHistory {
		return Anomaly{}, false
	}

	costs := s.Costs()
	med := median(costs)
	if med <= p.MinDailyCost || med <= 0 {
		return Anomaly{}, false
	}

	slope := theilSenSlope(costs)
	drift := slope * float64(n) / med * 100

	if math.Abs(drift) < p.DriftThresholdPct {
		return Anomaly{}, false
	}

	dir := DirectionDriftUp
	if drift < 0 {
		dir = DirectionDriftDown
	}

	return Anomaly{
		Key:         s.Key,
		Kind:        KindTrend,
		Date:        s.Points[n-1].Date,
		WindowStart: s.Points[0].Date,
		Metric:      drift,
		Direction:   dir,
		Baseline: Baseline{
			Current: costs[n-1],
			Median:  med,
			Slope:   slope,
			Points:  n,
		},
	}, true
}
