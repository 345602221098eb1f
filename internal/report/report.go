package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/roach88/costwatch/internal/detect"
)

// Settings records the parameters a report was produced with.
type Settings struct {
	WindowDays        int
	WindowEnd         time.Time
	Grouping          detect.Grouping
	Sensitivity       string
	Threshold         float64
	DriftThresholdPct float64
	MinDailyCost      float64

	// DataSource is empty when all sources were read.
	DataSource string

	// ScanStart and ScanEnd are set for historical scans only.
	ScanStart time.Time
	ScanEnd   time.Time
}

// IsScan reports whether the settings describe a historical scan.
func (s Settings) IsScan() bool {
	return !s.ScanStart.IsZero() && !s.ScanEnd.IsZero()
}

// Report is one rendered detection run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Settings    Settings
	Anomalies   []detect.Anomaly
}

// Option configures New.
type Option func(*Report)

// WithRunID sets a fixed run ID instead of a fresh UUIDv7.
func WithRunID(id string) Option {
	return func(r *Report) {
		r.RunID = id
	}
}

// WithGeneratedAt sets the report timestamp instead of time.Now.
func WithGeneratedAt(t time.Time) Option {
	return func(r *Report) {
		r.GeneratedAt = t
	}
}

// New wraps anomalies, in engine order, with a run ID and timestamp.
// A nil anomaly slice is stored as empty.
func New(settings Settings, anomalies []detect.Anomaly, opts ...Option) Report {
	if anomalies == nil {
		anomalies = []detect.Anomaly{}
	}
	r := Report{
		Settings:  settings,
		Anomalies: anomalies,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.RunID == "" {
		r.RunID = uuid.Must(uuid.NewV7()).String()
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	r.GeneratedAt = r.GeneratedAt.UTC()
	return r
}
