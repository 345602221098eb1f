package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ExcludedLineItemTypes are never counted toward daily usage cost.
var ExcludedLineItemTypes = []string{"Tax", "Fee", "Credit", "Refund", "BundledDiscount"}

// Data source identifiers.
const (
	SourceCUR          = "cur"
	SourceCostExplorer = "cost_explorer"
)

// LineItem is one normalized cost line item.
type LineItem struct {
	ID           string
	UsageDate    time.Time
	AccountID    string
	ProductCode  string
	Region       string
	UsageType    string
	LineItemType string
	Cost         float64
	UsageAmount  float64
	DataSource   string
}

// WriteLineItems inserts line items in a single transaction.
// Uses ON CONFLICT(line_item_id) DO NOTHING for idempotency - re-ingesting the
// same items is a no-op. Returns the number of new rows.
func (s *Store) WriteLineItems(ctx context.Context, items []LineItem) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write line items: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cost_line_items
		(line_item_id, usage_date, usage_account_id, product_code, region,
		 usage_type, line_item_type, unblended_cost, usage_amount, data_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(line_item_id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("write line items: prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, item := range items {
		if item.ID == "" {
			return 0, fmt.Errorf("write line items: line item ID is required")
		}
		lineType := item.LineItemType
		if lineType == "" {
			lineType = "Usage"
		}
		source := item.DataSource
		if source == "" {
			source = SourceCUR
		}

		res, err := stmt.ExecContext(ctx,
			item.ID,
			item.UsageDate.UTC().Format(DateLayout),
			item.AccountID,
			item.ProductCode,
			item.Region,
			item.UsageType,
			lineType,
			item.Cost,
			item.UsageAmount,
			source,
		)
		if err != nil {
			return 0, fmt.Errorf("write line item %s: %w", item.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("write line item %s: rows affected: %w", item.ID, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write line items: commit: %w", err)
	}
	return inserted, nil
}

// RebuildDailySummary replaces daily_cost_summary with fresh totals from
// cost_line_items, excluding ExcludedLineItemTypes.
// Returns the number of summary rows.
func (s *Store) RebuildDailySummary(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("rebuild summary: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_cost_summary"); err != nil {
		return 0, fmt.Errorf("rebuild summary: clear: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ExcludedLineItemTypes)), ", ")
	args := make([]any, len(ExcludedLineItemTypes))
	for i, t := range ExcludedLineItemTypes {
		args[i] = t
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_cost_summary
		(usage_date, usage_account_id, product_code, region, data_source,
		 total_unblended_cost, total_usage_amount, line_item_count)
		SELECT usage_date, usage_account_id, product_code, region, data_source,
		       SUM(unblended_cost), SUM(usage_amount), COUNT(*)
		FROM cost_line_items
		WHERE line_item_type NOT IN (`+placeholders+`)
		GROUP BY usage_date, usage_account_id, product_code, region, data_source
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("rebuild summary: insert: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_cost_summary").Scan(&count); err != nil {
		return 0, fmt.Errorf("rebuild summary: count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("rebuild summary: commit: %w", err)
	}
	return count, nil
}
