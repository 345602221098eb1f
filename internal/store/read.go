package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/costwatch/internal/detect"
)

// RowQuery selects summary rows for detection.
type RowQuery struct {
	// Start and End bound usage_date inclusively.
	Start time.Time
	End   time.Time

	// DataSource restricts rows to one source ("cur", "cost_explorer").
	// Empty means all sources.
	DataSource string
}

// ReadCostRows returns daily usage cost per (date, service, account, region)
// for the query range, summed across the selected data sources.
//
// Results are ordered by usage_date, product_code, usage_account_id, region.
// Returns an empty slice (not nil) if no rows match.
func (s *Store) ReadCostRows(ctx context.Context, q RowQuery) ([]detect.CostRow, error) {
	if q.Start.After(q.End) {
		return nil, fmt.Errorf("read cost rows: start %s is after end %s",
			q.Start.Format(DateLayout), q.End.Format(DateLayout))
	}

	query := `
		SELECT usage_date, product_code, usage_account_id, region, SUM(total_unblended_cost)
		FROM daily_cost_summary
		WHERE usage_date >= ? AND usage_date <= ?`
	args := []any{q.Start.UTC().Format(DateLayout), q.End.UTC().Format(DateLayout)}
	if q.DataSource != "" {
		query += " AND data_source = ?"
		args = append(args, q.DataSource)
	}
	query += `
		GROUP BY usage_date, product_code, usage_account_id, region
		ORDER BY usage_date ASC, product_code COLLATE BINARY ASC,
		         usage_account_id COLLATE BINARY ASC, region COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cost rows: %w", err)
	}
	defer rows.Close()

	out := []detect.CostRow{}
	for rows.Next() {
		var (
			date string
			row  detect.CostRow
		)
		if err := rows.Scan(&date, &row.Service, &row.Account, &row.Region, &row.Cost); err != nil {
			return nil, fmt.Errorf("scan cost row: %w", err)
		}
		row.Date, err = time.Parse(DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse usage_date %q: %w", date, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cost rows: %w", err)
	}

	return out, nil
}

// CountDailyRows returns the number of rows in daily_cost_summary.
func (s *Store) CountDailyRows(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_cost_summary").Scan(&n); err != nil {
		return 0, fmt.Errorf("count daily rows: %w", err)
	}
	return n, nil
}

// DateRange returns the first and last usage_date in daily_cost_summary.
// Returns ok=false when the summary is empty.
func (s *Store) DateRange(ctx context.Context) (first, last time.Time, ok bool, err error) {
	var minDate, maxDate sql.NullString
	err = s.db.QueryRowContext(ctx,
		"SELECT MIN(usage_date), MAX(usage_date) FROM daily_cost_summary",
	).Scan(&minDate, &maxDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("query date range: %w", err)
	}
	if !minDate.Valid || !maxDate.Valid {
		return time.Time{}, time.Time{}, false, nil
	}

	first, err = time.Parse(DateLayout, minDate.String)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parse usage_date %q: %w", minDate.String, err)
	}
	last, err = time.Parse(DateLayout, maxDate.String)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parse usage_date %q: %w", maxDate.String, err)
	}
	return first, last, true, nil
}
