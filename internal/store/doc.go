// Package store provides SQLite-backed storage for normalized AWS cost data.
//
// The store holds two tables:
//   - cost_line_items: normalized line items as produced by ingestion
//   - daily_cost_summary: per-day totals by account, service, region and
//     data source, rebuilt from line items
//
// Detection reads only the summary. Non-usage line items (Tax, Fee, Credit,
// Refund, BundledDiscount) are excluded when the summary is rebuilt, so rows
// handed to the detection engine are already usage-only.
//
// # Deterministic Query Results
//
// Every read that feeds detection orders by
// usage_date, product_code, usage_account_id, region, data_source.
// Identical databases always produce identical row sequences.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Dates are stored as TEXT in YYYY-MM-DD form and always interpreted as UTC.
package store
