package testutil

import (
	"sync"
	"time"
)

// DayClock is a deterministic calendar clock for tests.
//
// Now always returns midnight UTC of the current day; Advance moves the day
// forward. Commands that default their reference date to "today" accept a
// DayClock so tests get the same window on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DayClock struct {
	mu    sync.Mutex
	start time.Time
	day   time.Time
}

// NewDayClock creates a clock fixed at the given YYYY-MM-DD date.
// Panics on a malformed date.
func NewDayClock(date string) *DayClock {
	d := Date(date)
	return &DayClock{start: d, day: d}
}

// Now returns the current day.
func (c *DayClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// Advance moves the clock forward by n days and returns the new day.
func (c *DayClock) Advance(n int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = c.day.AddDate(0, 0, n)
	return c.day
}

// Reset returns the clock to its starting day.
func (c *DayClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = c.start
}

// Date parses a YYYY-MM-DD date as midnight UTC.
// Panics on a malformed date; intended for test literals only.
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("testutil.Date: " + err.Error())
	}
	return d
}
