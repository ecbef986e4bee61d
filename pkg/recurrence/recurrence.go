// Package recurrence detects repeating expenses in transaction history.
package recurrence

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
)

// Period is the detected cadence of a recurring expense.
type Period string

const (
	Monthly Period = "monthly"
	Weekly  Period = "weekly"
)

// Expense is a detected recurring expense.
type Expense struct {
	Description         string    `json:"description"`
	Category            string    `json:"category,omitempty"`
	Amount              float64   `json:"amount"`
	Period              Period    `json:"frequency"`
	LastDate            time.Time `json:"last_date"`
	NextExpected        time.Time `json:"next_expected"`
	AverageIntervalDays float64   `json:"average_interval_days"`
	Occurrences         int       `json:"occurrences"`
}

type signature struct {
	description string
	cents       int64
}

// Detect groups expenses by normalized description and amount and keeps the
// groups whose average interval falls in the monthly or weekly band. The
// caller passes expense transactions only; amounts are compared as
// magnitudes.
func Detect(expenses []finance.Transaction) []Expense {
	groups := make(map[signature][]finance.Transaction)
	var order []signature
	for _, e := range expenses {
		key := signature{
			description: normalizeDescription(e.Description),
			cents:       int64(math.Round(e.Magnitude() * constants.DecimalPrecision)),
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	var results []Expense
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		intervals := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			intervals = append(intervals, datetime.DaysBetween(group[i-1].Date, group[i].Date))
		}
		avg := mathutil.Mean(intervals)

		period, ok := classify(avg)
		if !ok {
			continue
		}

		last := group[len(group)-1]
		results = append(results, Expense{
			Description:         strings.TrimSpace(group[0].Description),
			Category:            last.Category,
			Amount:              float64(key.cents) / constants.DecimalPrecision,
			Period:              period,
			LastDate:            last.Date,
			NextExpected:        last.Date.AddDate(0, 0, int(math.Round(avg))),
			AverageIntervalDays: mathutil.Round(avg),
			Occurrences:         len(group),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].NextExpected.Equal(results[j].NextExpected) {
			return results[i].NextExpected.Before(results[j].NextExpected)
		}
		return normalizeDescription(results[i].Description) < normalizeDescription(results[j].Description)
	})
	return results
}

// TotalMonthly sums the amounts of the monthly items. Weekly items are not
// part of this total; use Schedule for a per-month figure covering both.
func TotalMonthly(items []Expense) float64 {
	total := 0.0
	for _, item := range items {
		if item.Period == Monthly {
			total += item.Amount
		}
	}
	return mathutil.Round(total)
}

// Schedule returns the expected recurring spend for each of the months
// calendar months starting at start's month. Occurrences are generated from
// each item's NextExpected date at its average interval.
func Schedule(items []Expense, start time.Time, months int) []float64 {
	if months <= 0 {
		return nil
	}
	out := make([]float64, months)
	origin := datetime.MonthStart(start)
	end := datetime.AddMonths(origin, months)

	for _, item := range items {
		switch item.Period {
		case Monthly:
			for k := 0; ; k++ {
				due := datetime.AddMonths(item.NextExpected, k)
				if !due.Before(end) {
					break
				}
				if idx := datetime.MonthsBetween(origin, due); idx >= 0 && idx < months {
					out[idx] += item.Amount
				}
			}
		case Weekly:
			step := int(math.Round(item.AverageIntervalDays))
			if step <= 0 {
				step = int(constants.DaysPerWeek)
			}
			for due := item.NextExpected; due.Before(end); due = due.AddDate(0, 0, step) {
				if idx := datetime.MonthsBetween(origin, due); idx >= 0 && idx < months {
					out[idx] += item.Amount
				}
			}
		}
	}

	for i := range out {
		out[i] = mathutil.Round(out[i])
	}
	return out
}

func classify(avgDays float64) (Period, bool) {
	switch {
	case avgDays >= constants.MonthlyIntervalMin && avgDays <= constants.MonthlyIntervalMax:
		return Monthly, true
	case avgDays >= constants.WeeklyIntervalMin && avgDays <= constants.WeeklyIntervalMax:
		return Weekly, true
	default:
		return "", false
	}
}

func normalizeDescription(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}
