package amortization

import (
	"fmt"

	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given projected month.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remaining_principal"`
}

// Calculator projects debts with logging.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new calculator instance.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Project returns the balance trajectory of an active debt. Paid-off debts
// project as a flat zero line.
func (c *Calculator) Project(debt finance.Debt, months int) ([]float64, error) {
	if !debt.Active() {
		if months < 0 {
			return nil, finance.InvalidInput("horizon %d months must not be negative", months)
		}
		return make([]float64, months+1), nil
	}
	balances, err := ProjectDebt(debt.Balance, debt.InterestRate, debt.Payment, debt.Frequency, months)
	if err != nil {
		return nil, fmt.Errorf("debt %s: %w", debt.ID, err)
	}

	for m, b := range balances {
		if m > 0 && b == 0 && balances[m-1] > 0 {
			c.logger.Debug(fmt.Sprintf("debt %s paid off in month %d", debt.ID, m),
				zap.String("op", "amortization.Project"),
			)
			break
		}
	}
	if months > 0 && balances[months] >= debt.Balance && debt.Balance > 0 {
		c.logger.Debug(fmt.Sprintf("debt %s payment %.2f does not reduce the balance", debt.ID, debt.Payment),
			zap.String("op", "amortization.Project"),
		)
	}
	return balances, nil
}

// Schedule splits each projected month into interest and principal. A debt
// without a payment accrues nothing, matching its flat balance.
func (c *Calculator) Schedule(debt finance.Debt, months int) ([]Payment, error) {
	balances, err := c.Project(debt, months)
	if err != nil {
		return nil, err
	}
	paid := Payments(balances, debt.InterestRate, debt.Payment, debt.Frequency)
	schedule := make([]Payment, len(paid))
	for i, p := range paid {
		interest := 0.0
		if balances[i] > 0 && p > 0 {
			interest = CalculateInterestPayment(balances[i], debt.InterestRate)
		}
		schedule[i] = Payment{
			Month:              i + 1,
			Payment:            mathutil.Round(p),
			Interest:           mathutil.Round(interest),
			Principal:          mathutil.Round(p - interest),
			RemainingPrincipal: mathutil.Round(balances[i+1]),
		}
	}
	return schedule, nil
}
