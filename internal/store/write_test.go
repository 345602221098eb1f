package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLineItems_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.WriteLineItems(ctx, []LineItem{
		createTestItem("li-1", "2025-01-14", "AmazonEC2", "111", 12.5),
		createTestItem("li-2", "2025-01-15", "AmazonEC2", "111", 13.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var date, source, lineType string
	var cost float64
	err = s.db.QueryRow(`
		SELECT usage_date, data_source, line_item_type, unblended_cost
		FROM cost_line_items WHERE line_item_id = ?
	`, "li-2").Scan(&date, &source, &lineType, &cost)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", date)
	assert.Equal(t, SourceCUR, source)
	assert.Equal(t, "Usage", lineType)
	assert.Equal(t, 13.5, cost)
}

func TestWriteLineItems_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	items := []LineItem{createTestItem("li-1", "2025-01-15", "AmazonEC2", "111", 10)}

	n, err := s.WriteLineItems(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.WriteLineItems(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWriteLineItems_RequiresID(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteLineItems(context.Background(), []LineItem{
		createTestItem("li-1", "2025-01-15", "AmazonEC2", "111", 10),
		createTestItem("", "2025-01-15", "AmazonEC2", "111", 10),
	})
	require.Error(t, err)

	// The whole batch rolls back.
	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM cost_line_items").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRebuildDailySummary_ExcludesNonUsage(t *testing.T) {
	s := createTestStore(t)

	items := []LineItem{
		createTestItem("u-1", "2025-01-15", "AmazonEC2", "111", 100),
		createTestItem("u-2", "2025-01-15", "AmazonEC2", "111", 50),
	}
	for i, lineType := range ExcludedLineItemTypes {
		item := createTestItem(itemID("x", i), "2025-01-15", "AmazonEC2", "111", 999)
		item.LineItemType = lineType
		items = append(items, item)
	}
	seedItems(t, s, items...)

	var total float64
	var count int
	err := s.db.QueryRow(`
		SELECT total_unblended_cost, line_item_count FROM daily_cost_summary
		WHERE usage_date = '2025-01-15' AND product_code = 'AmazonEC2'
	`).Scan(&total, &count)
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)
	assert.Equal(t, 2, count)
}

func TestRebuildDailySummary_ReplacesPreviousTotals(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seedItems(t, s, createTestItem("u-1", "2025-01-15", "AmazonEC2", "111", 100))
	_, err := s.WriteLineItems(ctx, []LineItem{createTestItem("u-2", "2025-01-15", "AmazonS3", "111", 5)})
	require.NoError(t, err)

	n, err := s.RebuildDailySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := s.CountDailyRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
}
