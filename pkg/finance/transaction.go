package finance

import (
	"math"
	"time"

	"github.com/iwvelando/finance-projection/pkg/series"
)

// TransactionType classifies a transaction.
type TransactionType string

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

// Transaction is a historical money movement.
type Transaction struct {
	ID          string
	Date        time.Time
	Amount      float64
	Type        TransactionType
	Category    string
	Description string
	Source      string
}

// Kind returns the explicit type, or infers income/expense from the sign.
func (t Transaction) Kind() TransactionType {
	if t.Type != "" {
		return t.Type
	}
	if t.Amount < 0 {
		return Expense
	}
	return Income
}

// SignedAmount returns the amount with inflows positive and outflows negative.
// Transfers carry no cash-flow effect.
func (t Transaction) SignedAmount() float64 {
	switch t.Kind() {
	case Income:
		return math.Abs(t.Amount)
	case Expense:
		return -math.Abs(t.Amount)
	default:
		return 0
	}
}

// Magnitude returns the absolute amount.
func (t Transaction) Magnitude() float64 {
	return math.Abs(t.Amount)
}

// FilterType returns the transactions of the given kind, preserving order.
func FilterType(txns []Transaction, kind TransactionType) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

// CashFlowSeries converts transactions into a signed series; transfers are
// dropped.
func CashFlowSeries(txns []Transaction) series.Series {
	points := make([]series.Point, 0, len(txns))
	for _, t := range txns {
		amount := t.SignedAmount()
		if amount == 0 {
			continue
		}
		points = append(points, series.Point{Time: t.Date, Amount: amount})
	}
	return series.New(points)
}
