package detect

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_EmptyInput(t *testing.T) {
	out, err := Detect(nil, testParams(14, 2.5))
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDetect_InvalidParamsFailFast(t *testing.T) {
	p := testParams(2, 2.5)
	_, err := Detect(seriesRows("AmazonEC2", "111", 1, 2, 3), p)
	require.Error(t, err)
	assert.True(t, IsInvalidConfiguration(err))
}

func TestDetect_SpikeAndDriftTogether(t *testing.T) {
	costs := make([]float64, 0, 14)
	for d := 0; d < 13; d++ {
		costs = append(costs, 100+float64(d)*2)
	}
	costs = append(costs, 300)

	out, err := Detect(seriesRows("AmazonEC2", "111", costs...), testParams(14, 2.5))
	require.NoError(t, err)

	point := byKind(out, KindPoint)
	trend := byKind(out, KindTrend)
	require.Len(t, point, 1)
	require.Len(t, trend, 1)
	assert.Equal(t, DirectionSpike, point[0].Direction)
	assert.Equal(t, DirectionDriftUp, trend[0].Direction)
	assert.Equal(t, point[0].Key, trend[0].Key)
	assert.InDelta(t, 2.0*14/113*100, trend[0].Metric, 1e-9)
}

func TestDetect_MultiDimensionIndependence(t *testing.T) {
	spiked := append(flat(13, 100), 500)

	var rows []CostRow
	rows = append(rows, seriesRows("AmazonEC2", "111", spiked...)...)
	rows = append(rows, seriesRows("AmazonEC2", "222", flat(14, 100)...)...)
	rows = append(rows, seriesRows("AmazonS3", "111", flat(14, 50)...)...)

	p := testParams(14, 2.5)
	p.Grouping = GroupByServiceAccount

	out, err := Detect(rows, p)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, NewGroupKey(GroupByServiceAccount, "AmazonEC2", "111"), out[0].Key)
	assert.Equal(t, DirectionSpike, out[0].Direction)

	// The neighbour's result does not change when the spike is removed.
	rows = append(seriesRows("AmazonEC2", "111", flat(14, 100)...), rows[14:]...)
	out, err = Detect(rows, p)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDetect_SingleDimensionMasksOffsettingGroups(t *testing.T) {
	var rows []CostRow
	rows = append(rows, seriesRows("AmazonEC2", "111", append(flat(13, 100), 200)...)...)
	rows = append(rows, seriesRows("AmazonEC2", "222", append(flat(13, 100), 0.01)...)...)

	p := testParams(14, 2.5)
	out, err := Detect(rows, p)
	require.NoError(t, err)
	assert.Empty(t, byKind(out, KindPoint))

	p.Grouping = GroupByServiceAccount
	out, err = Detect(rows, p)
	require.NoError(t, err)
	assert.NotEmpty(t, byKind(out, KindPoint))
}

func TestDetect_InsufficientHistorySkip(t *testing.T) {
	var rows []CostRow
	rows = append(rows, seriesRows("AmazonEC2", "111", 10, 500)...)
	rows = append(rows, seriesRows("AmazonS3", "111", 10, 10, 10, 500)...)

	out, err := Detect(rows, testParams(14, 2.5))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "AmazonS3", out[0].Key.String())
	assert.Equal(t, KindPoint, out[0].Kind)
	assert.Empty(t, byKind(out, KindTrend))
}

// mixedRows builds a deterministic population of groups with varied
// last-day deviations so each sensitivity preset flags a different subset.
func mixedRows() []CostRow {
	var rows []CostRow
	base := []float64{100, 104, 98, 101, 97, 103, 99, 102, 100, 96, 104, 98, 101}
	for i := 0; i < 24; i++ {
		last := 100 + float64(i)*1.5
		if i%2 == 1 {
			last = 100 - float64(i)*1.5
		}
		costs := append(append([]float64{}, base...), last)
		rows = append(rows, seriesRows(fmt.Sprintf("svc-%02d", i), "111", costs...)...)
	}
	return rows
}

func flaggedKeys(t *testing.T, rows []CostRow, sensitivity string) map[GroupKey]bool {
	t.Helper()
	threshold, ok := SensitivityThreshold(sensitivity)
	require.True(t, ok)

	out, err := Detect(rows, testParams(14, threshold))
	require.NoError(t, err)

	keys := make(map[GroupKey]bool)
	for _, a := range byKind(out, KindPoint) {
		keys[a.Key] = true
	}
	return keys
}

func TestDetect_MonotonicInThreshold(t *testing.T) {
	rows := mixedRows()
	low := flaggedKeys(t, rows, "low")
	medium := flaggedKeys(t, rows, "medium")
	high := flaggedKeys(t, rows, "high")

	for k := range low {
		assert.True(t, medium[k], "low flagged %s but medium did not", k)
	}
	for k := range medium {
		assert.True(t, high[k], "medium flagged %s but high did not", k)
	}
	assert.Greater(t, len(high), len(low))
}

func TestDetect_DeterministicTieBreak(t *testing.T) {
	spike := append(flat(13, 10), 50)
	var rows []CostRow
	for _, svc := range []string{"AmazonS3", "AWSLambda", "AmazonEC2", "AmazonRDS"} {
		rows = append(rows, seriesRows(svc, "111", spike...)...)
	}

	var first []Anomaly
	for run := 0; run < 20; run++ {
		out, err := New(WithWorkers(4)).Detect(rows, testParams(14, 2.5))
		require.NoError(t, err)
		require.Len(t, out, 4)
		if first == nil {
			first = out
			continue
		}
		assert.Equal(t, first, out)
	}

	var keys []string
	for _, a := range first {
		keys = append(keys, a.Key.String())
	}
	assert.Equal(t, []string{"AWSLambda", "AmazonEC2", "AmazonRDS", "AmazonS3"}, keys)
}

func TestDetect_WorkerCountInvariance(t *testing.T) {
	rows := mixedRows()
	p := testParams(14, 2.0)

	sequential, err := New(WithWorkers(1)).Detect(rows, p)
	require.NoError(t, err)
	require.NotEmpty(t, sequential)

	for _, workers := range []int{2, 3, 8, 64} {
		parallel, err := New(WithWorkers(workers)).Detect(rows, p)
		require.NoError(t, err)
		assert.Equal(t, sequential, parallel, "workers=%d", workers)
	}
}

func TestNew_Options(t *testing.T) {
	assert.Equal(t, 3, New(WithWorkers(3)).Workers())
	assert.GreaterOrEqual(t, New(WithWorkers(0)).Workers(), 1)
}

func TestDetect_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(WithLogger(logger)).Detect(seriesRows("AmazonEC2", "111", 1, 2, 3), testParams(14, 2.5))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "detection complete")
	assert.Contains(t, buf.String(), "grouping=service")
}
