package detect

import (
	"slices"
	"time"
)

// BuildSeries partitions rows into one GroupSeries per distinct GroupKey of g,
// keeping only rows that fall inside w.
//
// Rows sharing a key and date are summed, so every series has at most one
// point per date. Dates absent from the input stay absent. Series are
// returned ordered by GroupKey.Compare.
//
// Returns an INVALID_GROUPING error if g is outside the whitelist. No rows in
// the window yields an empty, non-nil slice.
func BuildSeries(rows []CostRow, g Grouping, w Window) ([]GroupSeries, error) {
	if !g.Valid() {
		return nil, newGroupingError("grouping %d must be one of %s", int(g), groupingNames())
	}

	byKey := make(map[GroupKey]map[time.Time]float64)
	for _, r := range rows {
		if !w.Contains(r.Date) {
			continue
		}
		k := keyForRow(g, r)
		days, ok := byKey[k]
		if !ok {
			days = make(map[time.Time]float64)
			byKey[k] = days
		}
		days[Day(r.Date)] += r.Cost
	}

	series := make([]GroupSeries, 0, len(byKey))
	for k, days := range byKey {
		points := make([]DailyCostPoint, 0, len(days))
		for d, cost := range days {
			points = append(points, DailyCostPoint{Date: d, Cost: cost})
		}
		slices.SortFunc(points, func(a, b DailyCostPoint) int {
			return a.Date.Compare(b.Date)
		})
		series = append(series, GroupSeries{Key: k, Points: points})
	}

	slices.SortFunc(series, func(a, b GroupSeries) int {
		return a.Key.Compare(b.Key)
	})
	return series, nil
}
