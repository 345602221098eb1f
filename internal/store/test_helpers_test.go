package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testDate(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// createTestItem creates a usage line item with minimal required fields.
func createTestItem(id, date, product, account string, cost float64) LineItem {
	return LineItem{
		ID:           id,
		UsageDate:    testDate(date),
		AccountID:    account,
		ProductCode:  product,
		Region:       "us-east-1",
		LineItemType: "Usage",
		Cost:         cost,
	}
}

// seedItems writes items and rebuilds the summary, failing the test on error.
func seedItems(t *testing.T, s *Store, items ...LineItem) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.WriteLineItems(ctx, items); err != nil {
		t.Fatalf("WriteLineItems() failed: %v", err)
	}
	if _, err := s.RebuildDailySummary(ctx); err != nil {
		t.Fatalf("RebuildDailySummary() failed: %v", err)
	}
}

func itemID(prefix string, i int) string {
	return fmt.Sprintf("%s-%03d", prefix, i)
}
