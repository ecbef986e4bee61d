// Package optimizer searches for the smallest monthly debt payment that meets
// a payoff target.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-projection/internal/config"
	"github.com/iwvelando/finance-projection/pkg/amortization"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/format"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"github.com/iwvelando/finance-projection/pkg/optimization"
	"go.uber.org/zap"
)

const (
	scopeDebt    = "debt"
	fieldPayment = "payment"
)

// Runner executes payoff searches. It holds no per-call state.
type Runner struct {
	logger *zap.Logger
	conf   config.PayoffConfig
}

type evaluation struct {
	payment float64
	months  int
	paid    bool
}

func (e evaluation) feasible(target int) bool {
	return e.paid && e.months <= target
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf config.PayoffConfig) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Runner{logger: logger, conf: conf}, nil
}

// Run searches every active debt against targetMonths. A non-positive target
// falls back to the configured one; when both are zero nothing is searched.
func (r *Runner) Run(debts []finance.Debt, targetMonths int) ([]optimization.Summary, error) {
	if targetMonths <= 0 {
		targetMonths = r.conf.TargetMonths
	}
	if targetMonths <= 0 {
		return nil, nil
	}

	var summaries []optimization.Summary
	for _, debt := range finance.ActiveDebts(debts) {
		if debt.Balance <= 0 {
			continue
		}
		summary, err := r.optimizeDebt(debt, targetMonths)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *Runner) optimizeDebt(debt finance.Debt, target int) (optimization.Summary, error) {
	if err := debt.Validate(); err != nil {
		return optimization.Summary{}, err
	}

	original := amortization.MonthlyEquivalent(debt.Payment, debt.Frequency)
	summary := optimization.Summary{
		Scope:        scopeDebt,
		TargetID:     debt.ID,
		TargetName:   debt.Name,
		Field:        fieldPayment,
		Original:     mathutil.Round(original),
		TargetMonths: target,
	}

	// The interest-only payment never retires the balance. The annuity payment
	// for the target term retires it on schedule; when rounding leaves it just
	// short, the balance plus one month of interest retires it immediately.
	interest := amortization.CalculateInterestPayment(debt.Balance, debt.InterestRate)
	lower := r.evaluate(debt, interest)
	upper := r.evaluate(debt, amortization.CalculateMonthlyPayment(debt.Balance, debt.InterestRate, target))
	if !upper.feasible(target) {
		upper = r.evaluate(debt, debt.Balance+interest)
	}

	if !upper.feasible(target) {
		summary.Value = mathutil.Round(upper.payment)
		summary.MonthsToPayoff = upper.months
		summary.Notes = append(summary.Notes, fmt.Sprintf("unable to pay off %s within %d months", debt.Name, target))
		return summary, nil
	}

	iterations := 0
	converged := false
	for iterations < r.conf.MaxIterations {
		if upper.payment-lower.payment <= r.conf.Tolerance {
			converged = true
			break
		}
		iterations++
		mid := r.evaluate(debt, (lower.payment+upper.payment)/2)
		if mid.feasible(target) {
			upper = mid
		} else {
			lower = mid
		}
	}

	// Round up to a whole cent and confirm the rounded payment still meets the target.
	best := r.evaluate(debt, math.Ceil(upper.payment*100)/100)
	if !best.feasible(target) {
		best = upper
	}

	summary.Value = mathutil.Round(best.payment)
	summary.MonthsToPayoff = best.months
	summary.Iterations = iterations
	summary.Converged = converged

	if originalMonths, ok := amortization.MonthsToPayoff(debt.Balance, debt.InterestRate, debt.Payment, debt.Frequency); ok && originalMonths <= target {
		summary.Notes = append(summary.Notes, fmt.Sprintf("current payment %s already pays off %s in %d months",
			format.Currency(original), debt.Name, originalMonths))
	}
	originalInterest, originalPaid := amortization.TotalInterest(debt.Balance, debt.InterestRate, debt.Payment, debt.Frequency)
	newInterest, _ := amortization.TotalInterest(debt.Balance, debt.InterestRate, summary.Value, finance.Monthly)
	if originalPaid {
		summary.InterestSaved = mathutil.Round(originalInterest - newInterest)
	}

	r.logger.Debug(fmt.Sprintf("payoff search for %s converged=%t after %d iterations: %s/month",
		debt.Name, converged, iterations, format.Currency(summary.Value)),
		zap.String("op", "optimizer.optimizeDebt"),
	)
	return summary, nil
}

func (r *Runner) evaluate(debt finance.Debt, payment float64) evaluation {
	months, ok := amortization.MonthsToPayoff(debt.Balance, debt.InterestRate, payment, finance.Monthly)
	return evaluation{payment: payment, months: months, paid: ok}
}
