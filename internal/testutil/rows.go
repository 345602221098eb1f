package testutil

import (
	"time"

	"github.com/roach88/costwatch/internal/detect"
)

// Dims names the (service, account, region) combination of generated rows.
type Dims struct {
	Service string
	Account string
	Region  string
}

// DefaultDims is the combination used when a test does not care.
var DefaultDims = Dims{Service: "AmazonEC2", Account: "111111111111", Region: "us-east-1"}

// Rows returns one row per cost on consecutive days ending at end.
// The last cost lands on end itself.
func Rows(dims Dims, end time.Time, costs ...float64) []detect.CostRow {
	first := end.AddDate(0, 0, -(len(costs) - 1))
	rows := make([]detect.CostRow, len(costs))
	for i, c := range costs {
		rows[i] = detect.CostRow{
			Date:    first.AddDate(0, 0, i),
			Service: dims.Service,
			Account: dims.Account,
			Region:  dims.Region,
			Cost:    c,
		}
	}
	return rows
}

// Flat returns n copies of cost.
func Flat(n int, cost float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = cost
	}
	return out
}

// Linear returns n costs starting at first and rising by step each day.
func Linear(n int, first, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = first + float64(i)*step
	}
	return out
}

// With returns costs followed by more.
func With(costs []float64, more ...float64) []float64 {
	out := make([]float64, 0, len(costs)+len(more))
	out = append(out, costs...)
	return append(out, more...)
}
