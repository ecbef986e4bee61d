// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/shopspring/decimal"
)

// MonthlyTransactions returns months transactions of amount on the given day
// of consecutive months, starting with first's month.
func MonthlyTransactions(kind finance.TransactionType, description string, amount float64, first time.Time, day, months int) []finance.Transaction {
	out := make([]finance.Transaction, 0, months)
	for i := 0; i < months; i++ {
		out = append(out, finance.Transaction{
			ID:          fmt.Sprintf("%s-%d", description, i),
			Date:        time.Date(first.Year(), first.Month()+time.Month(i), day, 0, 0, 0, 0, time.UTC),
			Amount:      amount,
			Type:        kind,
			Description: description,
		})
	}
	return out
}

// CentsMismatch reports the first index where got differs from want by more
// than tolerance, or -1 when the slices agree. A length mismatch reports the
// shorter length.
func CentsMismatch(got []decimal.Decimal, want []float64, tolerance float64) int {
	n := len(got)
	if len(want) < n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		if math.Abs(got[i].InexactFloat64()-want[i]) > tolerance {
			return i
		}
	}
	if len(got) != len(want) {
		return n
	}
	return -1
}
