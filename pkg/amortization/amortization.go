// Package amortization provides closed-form debt decay and balance growth
// projections.
package amortization

import (
	"math"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
)

// MonthlyEquivalent normalizes a payment made at freq to a monthly amount.
// Unknown or empty frequencies are treated as monthly.
func MonthlyEquivalent(payment float64, freq finance.PaymentFrequency) float64 {
	switch freq {
	case finance.Weekly:
		return payment * constants.WeeksPerYear / constants.MonthsPerYear
	case finance.BiWeekly:
		return payment * constants.BiWeeksPerYear / constants.MonthsPerYear
	case finance.Quarterly:
		return payment / constants.MonthsPerQuarter
	case finance.Annually:
		return payment / constants.MonthsPerYear
	default:
		return payment
	}
}

// ProjectDebt returns months+1 balances starting with the current balance.
// Each month accrues interest at annualRate/12 and then subtracts the monthly
// equivalent payment, flooring at zero. Without a payment the debt never
// amortizes and the balance stays flat.
func ProjectDebt(balance, annualRate, payment float64, freq finance.PaymentFrequency, months int) ([]float64, error) {
	if err := checkInputs(balance, annualRate, months); err != nil {
		return nil, err
	}
	if payment < 0 || math.IsNaN(payment) || math.IsInf(payment, 0) {
		return nil, finance.InvalidInput("payment %.2f must be a non-negative amount", payment)
	}

	monthly := MonthlyEquivalent(payment, freq)
	rate := mathutil.MonthlyRate(annualRate)

	balances := make([]float64, months+1)
	balances[0] = balance
	current := balance
	for m := 1; m <= months; m++ {
		if current > 0 && monthly > 0 {
			current *= 1 + rate
			current = math.Max(0, current-monthly)
		}
		balances[m] = current
	}
	return balances, nil
}

// ProjectGrowth compounds balance monthly at annualRate/12 without any
// payments.
func ProjectGrowth(balance, annualRate float64, months int) ([]float64, error) {
	if err := checkInputs(balance, math.Abs(annualRate), months); err != nil {
		return nil, err
	}
	rate := mathutil.MonthlyRate(annualRate)
	balances := make([]float64, months+1)
	balances[0] = balance
	for m := 1; m <= months; m++ {
		balances[m] = balances[m-1] * (1 + rate)
	}
	return balances, nil
}

// Payments returns the payment applied in each projected month of balances
// produced by ProjectDebt with the same rate, payment and frequency. The
// final payment is capped at the outstanding balance plus interest. The
// result has len(balances)-1 entries.
func Payments(balances []float64, annualRate, payment float64, freq finance.PaymentFrequency) []float64 {
	if len(balances) < 2 {
		return nil
	}
	monthly := MonthlyEquivalent(payment, freq)
	rate := mathutil.MonthlyRate(annualRate)
	out := make([]float64, len(balances)-1)
	for i := 1; i < len(balances); i++ {
		if balances[i-1] <= 0 || monthly <= 0 {
			continue
		}
		out[i-1] = math.Min(monthly, balances[i-1]*(1+rate))
	}
	return out
}

// MonthsToPayoff reports how many months it takes to reach a zero balance.
// It returns false when the payment never covers the accruing interest.
func MonthsToPayoff(balance, annualRate, payment float64, freq finance.PaymentFrequency) (int, bool) {
	if balance <= 0 {
		return 0, true
	}
	monthly := MonthlyEquivalent(payment, freq)
	rate := mathutil.MonthlyRate(annualRate)
	if monthly <= balance*rate || monthly <= 0 {
		return -1, false
	}
	current := balance
	for m := 1; m <= constants.MaxPayoffMonths; m++ {
		current = current*(1+rate) - monthly
		if current <= 0 {
			return m, true
		}
	}
	return -1, false
}

// TotalInterest sums the interest accrued until payoff. It returns false
// under the same conditions as MonthsToPayoff.
func TotalInterest(balance, annualRate, payment float64, freq finance.PaymentFrequency) (float64, bool) {
	months, ok := MonthsToPayoff(balance, annualRate, payment, freq)
	if !ok {
		return 0, false
	}
	monthly := MonthlyEquivalent(payment, freq)
	total := 0.0
	current := balance
	for m := 0; m < months; m++ {
		interest := CalculateInterestPayment(current, annualRate)
		total += interest
		current = math.Max(0, current+interest-monthly)
	}
	return mathutil.Round(total), true
}

// CalculateMonthlyPayment calculates the monthly payment that retires
// principal over termMonths using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return principal
	}
	if annualInterestRate == 0 {
		return principal / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

func checkInputs(balance, annualRate float64, months int) error {
	if months < 0 {
		return finance.InvalidInput("horizon %d months must not be negative", months)
	}
	if balance < 0 || math.IsNaN(balance) || math.IsInf(balance, 0) {
		return finance.InvalidInput("balance %.2f must be a non-negative amount", balance)
	}
	if annualRate < 0 || math.IsNaN(annualRate) || math.IsInf(annualRate, 0) {
		return finance.InvalidInput("interest rate %.2f must be a non-negative percentage", annualRate)
	}
	return nil
}
