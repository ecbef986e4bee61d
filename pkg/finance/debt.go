package finance

import (
	"math"
	"strings"
)

// PaymentFrequency is how often a debt payment is made.
type PaymentFrequency string

const (
	Weekly    PaymentFrequency = "weekly"
	BiWeekly  PaymentFrequency = "bi_weekly"
	Monthly   PaymentFrequency = "monthly"
	Quarterly PaymentFrequency = "quarterly"
	Annually  PaymentFrequency = "annually"
)

// ParsePaymentFrequency normalizes user spellings. An empty value means monthly.
func ParsePaymentFrequency(value string) (PaymentFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "monthly":
		return Monthly, nil
	case "weekly":
		return Weekly, nil
	case "bi_weekly", "bi-weekly", "biweekly", "fortnightly":
		return BiWeekly, nil
	case "quarterly":
		return Quarterly, nil
	case "annually", "annual", "yearly":
		return Annually, nil
	default:
		return "", InvalidInput("unknown payment frequency %q", value)
	}
}

// DebtStatus is the servicing state of a debt.
type DebtStatus string

const (
	StatusCurrent      DebtStatus = "current"
	StatusPastDue      DebtStatus = "past_due"
	StatusDefault      DebtStatus = "default"
	StatusPaidOff      DebtStatus = "paid_off"
	StatusInCollection DebtStatus = "in_collection"
	StatusSettled      DebtStatus = "settled"
)

// Debt is a point-in-time snapshot of something the user owes.
type Debt struct {
	ID           string
	Name         string
	Type         string
	Balance      float64
	InterestRate float64 // annual percent
	Payment      float64
	Frequency    PaymentFrequency
	Status       DebtStatus
}

// Active reports whether the debt takes part in projections.
func (d Debt) Active() bool {
	return d.Status != StatusPaidOff
}

// Validate checks the debt invariants.
func (d Debt) Validate() error {
	if d.ID == "" {
		return InvalidInput("debt without identifier")
	}
	if math.IsNaN(d.Balance) || math.IsInf(d.Balance, 0) {
		return InvalidInput("debt %s has a non-finite balance", d.ID)
	}
	if d.Balance < 0 {
		return InvalidInput("debt %s has negative balance %.2f", d.ID, d.Balance)
	}
	if d.Payment < 0 {
		return InvalidInput("debt %s has negative payment %.2f", d.ID, d.Payment)
	}
	if d.InterestRate < 0 {
		return InvalidInput("debt %s has negative interest rate %.2f", d.ID, d.InterestRate)
	}
	if d.Frequency != "" {
		if _, err := ParsePaymentFrequency(string(d.Frequency)); err != nil {
			return err
		}
	}
	return nil
}

// ActiveDebts returns the debts that are not paid off, preserving order.
func ActiveDebts(debts []Debt) []Debt {
	out := make([]Debt, 0, len(debts))
	for _, d := range debts {
		if d.Active() {
			out = append(out, d)
		}
	}
	return out
}
