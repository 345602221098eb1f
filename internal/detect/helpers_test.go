package detect

import (
	"time"
)

var testEnd = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// seriesRows returns one row per cost on consecutive days ending at testEnd.
func seriesRows(service, account string, costs ...float64) []CostRow {
	first := testEnd.AddDate(0, 0, -(len(costs) - 1))
	rows := make([]CostRow, len(costs))
	for i, c := range costs {
		rows[i] = CostRow{
			Date:    first.AddDate(0, 0, i),
			Service: service,
			Account: account,
			Region:  "us-east-1",
			Cost:    c,
		}
	}
	return rows
}

func flat(n int, cost float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = cost
	}
	return out
}

func testParams(days int, threshold float64) Params {
	return Params{
		Window:            Window{End: testEnd, Days: days},
		Grouping:          GroupByService,
		Threshold:         threshold,
		MinDailyCost:      DefaultMinDailyCost,
		DriftThresholdPct: DefaultDriftThresholdPct,
	}
}

func byKind(as []Anomaly, k Kind) []Anomaly {
	var out []Anomaly
	for _, a := range as {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}
