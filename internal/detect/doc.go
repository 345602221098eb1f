// Package detect implements the costwatch anomaly detection engine.
//
// The engine turns grouped daily cost rows into a ranked list of anomalies
// using two independent techniques:
//
//   - Point detection: robust (median/MAD) modified z-score of the most
//     recent day against the rest of the window. Flags sudden spikes and drops.
//   - Trend detection: Theil-Sen slope over the whole window, expressed as a
//     drift percentage of the series median. Flags gradual drift.
//
// # Pipeline
//
//  1. BuildSeries partitions rows into one GroupSeries per GroupKey.
//  2. Each series is handed to both detectors. Series share no state, so the
//     Engine runs them on a bounded worker pool.
//  3. After every series finishes (a hard barrier), Merge classifies and
//     sorts the findings into the final order.
//
// # Determinism
//
// Output order depends only on the input rows and Params, never on worker
// count or completion order. Ties at equal severity are resolved by kind,
// then magnitude, then GroupKey.
//
// Sparse history is not an error: a series with fewer than MinPointHistory
// points is skipped by the point detector, fewer than MinTrendHistory by the
// trend detector.
package detect
