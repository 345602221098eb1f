package detect

import "math"

const (
	// madScale rescales MAD to be comparable to a standard deviation under
	// a normal distribution.
	madScale = 0.6745

	// flatBaselineZ is the forced score when the baseline has no spread.
	flatBaselineZ = 10.0

	// madEpsilon treats a MAD this small as a perfectly flat baseline.
	madEpsilon = 1e-10
)

// detectPoint scores the last day of s against the rest of the series.
// Returns false when the series is too short, the day is below the spend
// floor, or the score does not reach p.Threshold.
func detectPoint(s GroupSeries, p Params) (Anomaly, bool) {
	n := len(s.Points)
	if n < MinPointHistory {
		return Anomaly{}, false
	}

	last := s.Points[n-1]
	current := last.Cost
	if current < p.MinDailyCost {
		return Anomaly{}, false
	}

	baseline := s.Costs()[:n-1]
	med := median(baseline)
	dev := mad(baseline, med)

	var z float64
	if dev < madEpsilon {
		switch {
		case current-med > p.MinDailyCost:
			z = flatBaselineZ
		case med-current > p.MinDailyCost:
			z = -flatBaselineZ
		default:
			return Anomaly{}, false
		}
	} else {
		z = madScale * (current - med) / dev
	}

	if math.Abs(z) < p.Threshold {
		return Anomaly{}, false
	}

	dir := DirectionSpike
	if z < 0 {
		dir = DirectionDrop
	}

	return Anomaly{
		Key:         s.Key,
		Kind:        KindPoint,
		Date:        last.Date,
		WindowStart: last.Date,
		Metric:      z,
		Direction:   dir,
		Baseline: Baseline{
			Current: current,
			Median:  med,
			MAD:     dev,
			Points:  n - 1,
		},
	}, true
}
