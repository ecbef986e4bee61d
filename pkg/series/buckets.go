package series

import (
	"time"

	"github.com/iwvelando/finance-projection/pkg/datetime"
)

// MonthlyTotals sums the amounts selected by sign into months consecutive
// calendar-month buckets starting at start's month. Months without activity
// are zero. Negative selections are reported as positive magnitudes.
func MonthlyTotals(s Series, start time.Time, months int, sign Sign) []float64 {
	if months <= 0 {
		return nil
	}
	buckets := make([]float64, months)
	origin := datetime.MonthStart(start)
	for _, p := range s.points {
		idx := datetime.MonthsBetween(origin, p.Time)
		if idx < 0 || idx >= months {
			continue
		}
		if v, ok := selectAmount(p.Amount, sign); ok {
			buckets[idx] += v
		}
	}
	return buckets
}

// MonthlyLast builds valuation buckets: each month holds the last observation
// at or before that month's end, carrying the previous bucket forward when a
// month has no observation. Months before the first observation take initial.
func MonthlyLast(s Series, start time.Time, months int, initial float64) []float64 {
	if months <= 0 {
		return nil
	}
	buckets := make([]float64, months)
	origin := datetime.MonthStart(start)
	current := initial
	i := 0
	for idx := 0; idx < months; idx++ {
		end := datetime.AddMonths(origin, idx+1)
		for i < len(s.points) && s.points[i].Time.Before(end) {
			current = s.points[i].Amount
			i++
		}
		buckets[idx] = current
	}
	return buckets
}

// DailyTotals sums amounts per day from the first to the last point inclusive,
// zero-filling days with no activity. It returns the day of each bucket too.
func DailyTotals(s Series, sign Sign) ([]time.Time, []float64) {
	first, ok := s.First()
	if !ok {
		return nil, nil
	}
	last, _ := s.Last()
	start := datetime.Day(first.Time)
	days := int(datetime.DaysBetween(start, last.Time)) + 1

	dates := make([]time.Time, days)
	values := make([]float64, days)
	for d := 0; d < days; d++ {
		dates[d] = start.AddDate(0, 0, d)
	}
	for _, p := range s.points {
		idx := int(datetime.DaysBetween(start, p.Time))
		if idx < 0 || idx >= days {
			continue
		}
		if v, ok := selectAmount(p.Amount, sign); ok {
			values[idx] += v
		}
	}
	return dates, values
}
