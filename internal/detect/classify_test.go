package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPoint(t *testing.T) {
	tests := []struct {
		z    float64
		want Severity
	}{
		{4.01, SeverityCritical},
		{-5, SeverityCritical},
		{4.0, SeverityWarning},
		{3.01, SeverityWarning},
		{-3.5, SeverityWarning},
		{3.0, SeverityInfo},
		{2.5, SeverityInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPoint(tt.z), "z=%v", tt.z)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		drift float64
		want  Severity
	}{
		{150, SeverityCritical},
		{-101, SeverityCritical},
		{100, SeverityWarning},
		{87.5, SeverityWarning},
		{-60, SeverityWarning},
		{50, SeverityInfo},
		{20, SeverityInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTrend(tt.drift), "drift=%v", tt.drift)
	}
}

func finding(kind Kind, service string, metric float64) Anomaly {
	return Anomaly{
		Key:    NewGroupKey(GroupByService, service),
		Kind:   kind,
		Date:   testEnd,
		Metric: metric,
	}
}

func TestMerge_Ordering(t *testing.T) {
	point := []Anomaly{
		finding(KindPoint, "AmazonS3", 2.6),   // info
		finding(KindPoint, "AmazonEC2", 10),   // critical
		finding(KindPoint, "AmazonRDS", -4.5), // critical
		finding(KindPoint, "AWSLambda", 3.5),  // warning
	}
	trend := []Anomaly{
		finding(KindTrend, "AmazonEC2", 150), // critical
		finding(KindTrend, "AmazonS3", -60),  // warning
		finding(KindTrend, "AmazonRDS", 25),  // info
	}

	merged := Merge(point, trend)
	require.Len(t, merged, 7)

	type row struct {
		sev     Severity
		kind    Kind
		service string
	}
	var got []row
	for _, a := range merged {
		got = append(got, row{a.Severity, a.Kind, a.Key.String()})
	}
	assert.Equal(t, []row{
		{SeverityCritical, KindPoint, "AmazonEC2"},
		{SeverityCritical, KindPoint, "AmazonRDS"},
		{SeverityCritical, KindTrend, "AmazonEC2"},
		{SeverityWarning, KindPoint, "AWSLambda"},
		{SeverityWarning, KindTrend, "AmazonS3"},
		{SeverityInfo, KindPoint, "AmazonS3"},
		{SeverityInfo, KindTrend, "AmazonRDS"},
	}, got)
}

func TestMerge_KindsNeverComparedByMagnitude(t *testing.T) {
	// A 150% drift does not outrank a z of 4.5 at the same severity.
	merged := Merge(
		[]Anomaly{finding(KindPoint, "AmazonS3", 4.5)},
		[]Anomaly{finding(KindTrend, "AmazonEC2", 150)},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, KindPoint, merged[0].Kind)
	assert.Equal(t, KindTrend, merged[1].Kind)
}

func TestMerge_TieBreakByKeyThenDate(t *testing.T) {
	later := finding(KindPoint, "AmazonEC2", 10)
	later.Date = testEnd.Add(24 * time.Hour)

	merged := Merge([]Anomaly{
		finding(KindPoint, "AmazonS3", 10),
		later,
		finding(KindPoint, "AmazonEC2", -10),
	}, nil)

	require.Len(t, merged, 3)
	assert.Equal(t, "AmazonEC2", merged[0].Key.String())
	assert.Equal(t, testEnd, merged[0].Date)
	assert.Equal(t, "AmazonEC2", merged[1].Key.String())
	assert.Equal(t, later.Date, merged[1].Date)
	assert.Equal(t, "AmazonS3", merged[2].Key.String())
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	point := []Anomaly{finding(KindPoint, "AmazonS3", 2.6), finding(KindPoint, "AmazonEC2", 10)}
	Merge(point, nil)
	assert.Equal(t, "AmazonS3", point[0].Key.String())
	assert.Equal(t, Severity(0), point[0].Severity)
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge(nil, nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
