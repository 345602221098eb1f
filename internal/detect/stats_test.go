package detect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"single", []float64{7}, 7},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"with outlier", []float64{10, 12, 11, 13, 50}, 12},
		{"duplicates", []float64{5, 5, 5, 5}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.in))
		})
	}
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestMedian_Empty(t *testing.T) {
	assert.True(t, math.IsNaN(median(nil)))
}

func TestMAD_RobustToOutlier(t *testing.T) {
	xs := []float64{10, 12, 11, 13, 50}
	// |x-12| = 2, 0, 1, 1, 38
	assert.Equal(t, 1.0, mad(xs, median(xs)))
}

func TestMAD_Flat(t *testing.T) {
	xs := []float64{100, 100, 100}
	assert.Equal(t, 0.0, mad(xs, 100))
}

func TestTheilSen_PerfectLine(t *testing.T) {
	assert.Equal(t, 2.0, theilSenSlope([]float64{10, 12, 14, 16, 18, 20, 22}))
}

func TestTheilSen_Decreasing(t *testing.T) {
	assert.Equal(t, -5.0, theilSenSlope([]float64{50, 45, 40, 35, 30}))
}

func TestTheilSen_Flat(t *testing.T) {
	assert.Equal(t, 0.0, theilSenSlope([]float64{100, 100, 100, 100, 100}))
}

func TestTheilSen_RobustToOutlier(t *testing.T) {
	// One wild point barely moves the estimate.
	ys := []float64{10, 11, 12, 13, 100, 15, 16, 17}
	assert.InDelta(t, 1.0, theilSenSlope(ys), 0.25)
}

func TestTheilSen_ShortInput(t *testing.T) {
	assert.Equal(t, 0.0, theilSenSlope(nil))
	assert.Equal(t, 0.0, theilSenSlope([]float64{4}))
	assert.Equal(t, 3.0, theilSenSlope([]float64{4, 7}))
}
