// Package report renders detection results for people and for tools.
//
// WriteText prints an aligned table, Payload builds the structured result
// returned by --format json, and Fingerprint hashes a result set so two runs
// can be compared byte for byte. None of them reorder anomalies; the engine's
// ranking is final.
package report
