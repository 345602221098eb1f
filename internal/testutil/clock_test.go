package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayClock_FixedUntilAdvanced(t *testing.T) {
	clock := NewDayClock("2025-01-15")

	assert.Equal(t, Date("2025-01-15"), clock.Now())
	assert.Equal(t, Date("2025-01-15"), clock.Now())
}

func TestDayClock_Advance(t *testing.T) {
	clock := NewDayClock("2025-01-30")

	assert.Equal(t, Date("2025-01-31"), clock.Advance(1))
	assert.Equal(t, Date("2025-02-02"), clock.Advance(2))
	assert.Equal(t, Date("2025-02-02"), clock.Now())
}

func TestDayClock_Reset(t *testing.T) {
	clock := NewDayClock("2025-01-15")
	clock.Advance(10)

	clock.Reset()
	assert.Equal(t, Date("2025-01-15"), clock.Now())
}

func TestDayClock_ThreadSafe(t *testing.T) {
	clock := NewDayClock("2025-01-01")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				clock.Advance(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, Date("2025-01-01").AddDate(0, 0, 100), clock.Now())
}

func TestDate_Malformed(t *testing.T) {
	assert.Panics(t, func() { Date("2025-13-01") })
}

func TestRows_EndOnLastCost(t *testing.T) {
	rows := Rows(DefaultDims, Date("2025-01-15"), 1, 2, 3)

	assert.Len(t, rows, 3)
	assert.Equal(t, Date("2025-01-13"), rows[0].Date)
	assert.Equal(t, Date("2025-01-15"), rows[2].Date)
	assert.Equal(t, 3.0, rows[2].Cost)
	assert.Equal(t, "AmazonEC2", rows[0].Service)
}

func TestLinearAndWith(t *testing.T) {
	assert.Equal(t, []float64{10, 12, 14}, Linear(3, 10, 2))
	assert.Equal(t, []float64{5, 5, 9}, With(Flat(2, 5), 9))
}
