package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSortDatesDropsRepeatedDays(t *testing.T) {
	in := []time.Time{day(11, 9), day(8, 1), day(11, 9).Add(3 * time.Hour), day(9, 10)}

	assert.Equal(t, []time.Time{day(8, 1), day(9, 10), day(11, 9)}, SortDates(in, true))
	assert.Equal(t, []time.Time{day(11, 9).Add(3 * time.Hour), day(9, 10), day(8, 1)}, SortDates(in, false))
	assert.Equal(t, day(11, 9), in[0])
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, []time.Time{day(9, 1), day(9, 6), day(9, 11)}, DateRange(day(9, 1), day(9, 12), 5))
	assert.Equal(t, []time.Time{day(9, 1)}, DateRange(day(9, 1), day(9, 1), 0))
	assert.Empty(t, DateRange(day(9, 2), day(9, 1), 1))
}

func TestExecuteWithMutex(t *testing.T) {
	var wg sync.WaitGroup
	count := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ExecuteWithMutex(func() { count++ })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, count)
}
