package projection

import (
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/optimization"
	"github.com/iwvelando/finance-projection/pkg/recurrence"
	"github.com/iwvelando/finance-projection/pkg/trend"
	"github.com/shopspring/decimal"
)

// Method names the estimator that produced a series.
type Method string

const (
	MethodSeasonal Method = "seasonal"
	MethodTrend    Method = "trend"
	MethodGrowth   Method = "growth"
	MethodFlat     Method = "flat"
	MethodStated   Method = "stated"
	MethodNone     Method = "none"
)

// RiskLevel classifies the volatility of a projected path.
type RiskLevel string

const (
	RiskLow       RiskLevel = "low"
	RiskMedium    RiskLevel = "medium"
	RiskHigh      RiskLevel = "high"
	RiskUndefined RiskLevel = "undefined"
)

// PortfolioRequest asks for a net-worth projection.
type PortfolioRequest struct {
	Portfolio finance.Portfolio
	Months    int
	// PayoffTargetMonths overrides the configured payoff target when > 0.
	PayoffTargetMonths int
}

// CashFlowRequest asks for a cash-flow projection.
type CashFlowRequest struct {
	Portfolio finance.Portfolio
	Months    int
}

// ProjectionPoint is one projected month. NetWorth is exactly
// TotalAssets - TotalDebts.
type ProjectionPoint struct {
	Month       int             `json:"month"`
	Date        string          `json:"date"`
	TotalAssets decimal.Decimal `json:"total_assets"`
	TotalDebts  decimal.Decimal `json:"total_debts"`
	NetWorth    decimal.Decimal `json:"net_worth"`
}

// AssetProjection holds month 0..N values of one asset.
type AssetProjection struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Category finance.AssetCategory `json:"category"`
	Method   Method                `json:"method"`
	Values   []decimal.Decimal     `json:"values"`
}

// DebtProjection holds month 0..N balances of one active debt.
type DebtProjection struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Balances    []decimal.Decimal `json:"balances"`
	PayoffMonth *int              `json:"payoff_month,omitempty"`
}

// RiskAnalysis describes how uneven a projected path is.
type RiskAnalysis struct {
	Volatility    float64   `json:"volatility"`
	MeanAbsChange float64   `json:"mean_abs_change"`
	Level         RiskLevel `json:"risk_level"`
}

// PortfolioSummary is derived from the projected points.
type PortfolioSummary struct {
	CurrentNetWorth   decimal.Decimal        `json:"current_net_worth"`
	ProjectedNetWorth decimal.Decimal        `json:"projected_net_worth"`
	GrowthRate        float64                `json:"growth_rate"`
	Volatility        float64                `json:"volatility"`
	RiskLevel         RiskLevel              `json:"risk_level"`
	DebtFreeMonth     *int                   `json:"debt_free_month,omitempty"`
	PayoffPlans       []optimization.Summary `json:"payoff_plans,omitempty"`
}

// PortfolioResult is the net-worth projection of one portfolio.
type PortfolioResult struct {
	AsOf               string            `json:"as_of"`
	Months             int               `json:"months"`
	CurrentAssets      decimal.Decimal   `json:"current_assets"`
	CurrentDebts       decimal.Decimal   `json:"current_debts"`
	CurrentNetWorth    decimal.Decimal   `json:"current_net_worth"`
	Assets             []AssetProjection `json:"asset_projections"`
	Debts              []DebtProjection  `json:"debt_projections"`
	MonthlyProjections []ProjectionPoint `json:"monthly_projections"`
	Summary            PortfolioSummary  `json:"summary"`
	RiskAnalysis       RiskAnalysis      `json:"risk_analysis"`
	Recommendations    []string          `json:"recommendations"`
	Warnings           []string          `json:"warnings,omitempty"`
}

// CashFlowMonth is one projected month of flows. NetCashFlow is exactly
// Income - Expenses - DebtPayments + AssetReturns.
type CashFlowMonth struct {
	Month             int             `json:"month"`
	Date              string          `json:"date"`
	Income            decimal.Decimal `json:"income"`
	Expenses          decimal.Decimal `json:"expenses"`
	RecurringExpenses decimal.Decimal `json:"recurring_expenses"`
	DebtPayments      decimal.Decimal `json:"debt_payments"`
	AssetReturns      decimal.Decimal `json:"asset_returns"`
	NetCashFlow       decimal.Decimal `json:"net_cash_flow"`
	CumulativeSavings decimal.Decimal `json:"cumulative_savings"`
}

// CashFlowSummary aggregates the projected months.
type CashFlowSummary struct {
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	TotalDebtPayments decimal.Decimal `json:"total_debt_payments"`
	TotalAssetReturns decimal.Decimal `json:"total_asset_returns"`
	NetPosition       decimal.Decimal `json:"net_position"`
	AverageMonthlyNet decimal.Decimal `json:"average_monthly_net_cash_flow"`
	NegativeMonths    int             `json:"negative_months"`
	Volatility        float64         `json:"volatility"`
	CumulativeSavings decimal.Decimal `json:"cumulative_savings"`
	SavingsRate       float64         `json:"savings_rate"`
	DebtToIncome      float64         `json:"debt_to_income"`
	SavingsGoal       decimal.Decimal `json:"savings_goal"`
	GoalProgress      float64         `json:"goal_progress"`
	RecurringMonthly  decimal.Decimal `json:"total_monthly_recurring"`
	IncomeTrend       trend.Direction `json:"income_trend"`
	ExpenseTrend      trend.Direction `json:"expense_trend"`
	IncomeMethod      Method          `json:"income_method"`
	ExpenseMethod     Method          `json:"expense_method"`
}

// CashFlowResult is the cash-flow projection of one portfolio.
type CashFlowResult struct {
	AsOf               string               `json:"as_of"`
	Months             int                  `json:"months"`
	MonthlyProjections []CashFlowMonth      `json:"monthly_projections"`
	Recurring          []recurrence.Expense `json:"recurring_expenses"`
	Summary            CashFlowSummary      `json:"summary"`
	RiskAnalysis       RiskAnalysis         `json:"risk_analysis"`
	Recommendations    []string             `json:"recommendations"`
	Warnings           []string             `json:"warnings,omitempty"`
}
