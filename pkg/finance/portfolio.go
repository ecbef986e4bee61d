package finance

import "time"

// Portfolio bundles the snapshots of one user at AsOf.
type Portfolio struct {
	AsOf          time.Time
	Assets        []Asset
	Debts         []Debt
	Transactions  []Transaction
	MonthlyIncome float64
	SavingsGoal   float64
}

// Validate checks every snapshot and stops at the first violation.
func (p Portfolio) Validate() error {
	for _, a := range p.Assets {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	for _, d := range p.Debts {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	if p.MonthlyIncome < 0 {
		return InvalidInput("monthly income %.2f must not be negative", p.MonthlyIncome)
	}
	if p.SavingsGoal < 0 {
		return InvalidInput("savings goal %.2f must not be negative", p.SavingsGoal)
	}
	return nil
}
