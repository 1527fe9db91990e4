package utils

import (
	"sort"
	"time"
)

// SortDates returns a sorted copy of dates without duplicated days.
func SortDates(dates []time.Time, asc bool) []time.Time {
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool {
		if asc {
			return sorted[i].Before(sorted[j])
		}
		return sorted[i].After(sorted[j])
	})

	unique := sorted[:0]
	for _, d := range sorted {
		if len(unique) > 0 && sameDay(unique[len(unique)-1], d) {
			continue
		}
		unique = append(unique, d)
	}
	return unique
}

// DateRange lists the days from start to end inclusive, every stepDays days.
func DateRange(start, end time.Time, stepDays int) []time.Time {
	if stepDays < 1 {
		stepDays = 1
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, stepDays) {
		dates = append(dates, d)
	}
	return dates
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
