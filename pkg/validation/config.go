package validation

import (
	"fmt"

	"github.com/iwvelando/finance-projection/pkg/amortization"
	"github.com/iwvelando/finance-projection/pkg/finance"
)

// ValidateDebtPayment warns when a debt payment does not cover the interest
// accruing each month, meaning the balance never falls.
func ValidateDebtPayment(debt finance.Debt) string {
	if !debt.Active() || debt.Balance <= 0 {
		return ""
	}
	interest := amortization.CalculateInterestPayment(debt.Balance, debt.InterestRate)
	monthly := amortization.MonthlyEquivalent(debt.Payment, debt.Frequency)
	if monthly <= interest {
		return fmt.Sprintf("Debt '%s' payment %.2f/month does not cover monthly interest %.2f - balance will not decrease",
			debt.Name, monthly, interest)
	}
	return ""
}

// ValidateDebtStatus warns about paid-off debts that still carry a balance.
func ValidateDebtStatus(debt finance.Debt) string {
	if debt.Status == finance.StatusPaidOff && debt.Balance > 0 {
		return fmt.Sprintf("Debt '%s' is paid off but has balance %.2f - it will be excluded from projections",
			debt.Name, debt.Balance)
	}
	return ""
}

// PortfolioValidator collects human-readable warnings for a portfolio. None
// of the warnings block a projection.
type PortfolioValidator struct {
	Assets       []finance.Asset
	Debts        []finance.Debt
	Transactions []finance.Transaction
}

// ValidateAll validates the entire portfolio and returns warnings
func (pv *PortfolioValidator) ValidateAll() []string {
	var warnings []string

	for _, debt := range pv.Debts {
		if w := ValidateDebtStatus(debt); w != "" {
			warnings = append(warnings, w)
		}
		if w := ValidateDebtPayment(debt); w != "" {
			warnings = append(warnings, w)
		}
	}

	for _, asset := range pv.Assets {
		category := asset.ResolvedCategory()
		if category == finance.CategoryOther && asset.History.Len() > 0 {
			warnings = append(warnings, fmt.Sprintf("Asset '%s' has valuation history but type '%s' is projected flat",
				asset.Name, asset.Type))
		}
		if category == finance.CategoryCash && asset.AnnualReturn != 0 && asset.InterestRate == 0 {
			warnings = append(warnings, fmt.Sprintf("Asset '%s' is cash - use interestRate rather than annualReturn",
				asset.Name))
		}
	}

	transfers := len(finance.FilterType(pv.Transactions, finance.Transfer))
	if transfers > 0 {
		warnings = append(warnings, fmt.Sprintf("%d transfer transactions are ignored for cash flow", transfers))
	}

	return warnings
}
