// Package insights derives spending, income, allocation and debt analyses
// from a portfolio snapshot and turns them into recommendations.
package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/finance-projection/pkg/amortization"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/format"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"go.uber.org/zap"
)

const (
	// DefaultSpendingDays is the spending window used by Generate.
	DefaultSpendingDays = 30
	// DefaultIncomeMonths is the income window used by Generate.
	DefaultIncomeMonths = 12

	daysPerMonth  = 30
	uncategorized = "uncategorized"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Recommendation is one actionable suggestion.
type Recommendation struct {
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Share is an amount and its percentage of a total.
type Share struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count,omitempty"`
}

// SpendingAnalysis summarizes expenses by category over the window.
type SpendingAnalysis struct {
	TotalExpenses     float64 `json:"total_expenses"`
	CategoryBreakdown []Share `json:"category_breakdown"`
	DailyAverage      float64 `json:"daily_average"`
}

// IncomeAnalysis summarizes income by source over the window.
type IncomeAnalysis struct {
	TotalIncome    float64 `json:"total_income"`
	MonthlyAverage float64 `json:"monthly_average"`
	Sources        []Share `json:"sources"`
}

// AllocationAnalysis breaks active asset value down by asset type.
type AllocationAnalysis struct {
	TotalValue           float64 `json:"total_value"`
	Allocation           []Share `json:"allocation"`
	DiversificationScore float64 `json:"diversification_score"`
}

// DebtDetail describes one active debt. MonthsToPayoff and TotalInterest are
// nil when the payment never retires the balance.
type DebtDetail struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Balance        float64  `json:"current_balance"`
	InterestRate   float64  `json:"interest_rate"`
	MonthlyPayment float64  `json:"monthly_payment"`
	MonthsToPayoff *int     `json:"months_to_payoff"`
	TotalInterest  *float64 `json:"total_interest"`
}

// DebtAnalysis aggregates active debts and their payoff orderings.
type DebtAnalysis struct {
	TotalDebt           float64      `json:"total_debt"`
	TotalMonthlyPayment float64      `json:"total_monthly_payment"`
	AverageInterestRate float64      `json:"average_interest_rate"`
	Debts               []DebtDetail `json:"debt_analysis"`
	AvalancheOrder      []string     `json:"avalanche_method"`
	SnowballOrder       []string     `json:"snowball_method"`
}

// Summary holds the headline ratios. Every ratio is 0 when there is no income.
type Summary struct {
	NetWorth        float64 `json:"net_worth"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	SavingsRate     float64 `json:"savings_rate"`
	DebtToIncome    float64 `json:"debt_to_income_ratio"`
}

// Report is the full insight bundle of one portfolio.
type Report struct {
	GeneratedAt     string             `json:"generated_at"`
	Summary         Summary            `json:"summary"`
	Spending        SpendingAnalysis   `json:"spending_analysis"`
	Income          IncomeAnalysis     `json:"income_analysis"`
	Assets          AllocationAnalysis `json:"asset_analysis"`
	Debt            DebtAnalysis       `json:"debt_analysis"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Analyzer builds reports.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer returns an Analyzer logging to logger.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Generate analyses the portfolio as of now using the default windows.
func (a *Analyzer) Generate(p finance.Portfolio, now time.Time) Report {
	spending := AnalyzeSpending(p.Transactions, now, DefaultSpendingDays)
	income := AnalyzeIncome(p.Transactions, now, DefaultIncomeMonths)
	assets := AnalyzeAllocation(p.Assets)
	debt := AnalyzeDebt(p.Debts)

	monthlyIncome := income.MonthlyAverage
	if monthlyIncome == 0 && p.MonthlyIncome > 0 {
		monthlyIncome = p.MonthlyIncome
	}
	monthlyExpenses := spending.DailyAverage * daysPerMonth

	summary := Summary{
		NetWorth:        mathutil.Round(assets.TotalValue - debt.TotalDebt),
		MonthlyIncome:   mathutil.Round(monthlyIncome),
		MonthlyExpenses: mathutil.Round(monthlyExpenses),
	}
	if monthlyIncome > 0 {
		summary.SavingsRate = mathutil.Round(mathutil.CalculatePercentage(monthlyIncome-monthlyExpenses, monthlyIncome))
		summary.DebtToIncome = mathutil.Round(mathutil.CalculatePercentage(debt.TotalMonthlyPayment, monthlyIncome))
	}

	report := Report{
		GeneratedAt:     now.UTC().Format(time.RFC3339),
		Summary:         summary,
		Spending:        spending,
		Income:          income,
		Assets:          assets,
		Debt:            debt,
		Recommendations: Recommend(summary.SavingsRate, summary.DebtToIncome, assets.DiversificationScore, debt.AverageInterestRate),
	}

	a.logger.Debug(fmt.Sprintf("generated %d recommendations", len(report.Recommendations)),
		zap.String("op", "insights.Generate"),
		zap.Float64("savings_rate", summary.SavingsRate),
		zap.Float64("debt_to_income", summary.DebtToIncome),
	)
	return report
}

// AnalyzeSpending groups the expenses of the last days days by category.
func AnalyzeSpending(txns []finance.Transaction, now time.Time, days int) SpendingAnalysis {
	since := now.AddDate(0, 0, -days)
	var recent []finance.Transaction
	for _, t := range finance.FilterType(txns, finance.Expense) {
		if !t.Date.Before(since) {
			recent = append(recent, t)
		}
	}
	shares, total := group(recent, func(t finance.Transaction) string { return t.Category })
	result := SpendingAnalysis{
		TotalExpenses:     mathutil.Round(total),
		CategoryBreakdown: shares,
	}
	if days > 0 {
		result.DailyAverage = mathutil.Round(total / float64(days))
	}
	return result
}

// AnalyzeIncome groups the income of the last months months (30-day months)
// by source.
func AnalyzeIncome(txns []finance.Transaction, now time.Time, months int) IncomeAnalysis {
	since := now.AddDate(0, 0, -months*daysPerMonth)
	var recent []finance.Transaction
	for _, t := range finance.FilterType(txns, finance.Income) {
		if !t.Date.Before(since) {
			recent = append(recent, t)
		}
	}
	shares, total := group(recent, func(t finance.Transaction) string { return t.Source })
	result := IncomeAnalysis{
		TotalIncome: mathutil.Round(total),
		Sources:     shares,
	}
	if months > 0 {
		result.MonthlyAverage = mathutil.Round(total / float64(months))
	}
	return result
}

// AnalyzeAllocation groups asset values by type and scores diversification
// as min(100, types*20*(100-largest share)/100). No assets scores 0.
func AnalyzeAllocation(assets []finance.Asset) AllocationAnalysis {
	totals := map[string]float64{}
	var order []string
	total := 0.0
	for _, asset := range assets {
		key := asset.Type
		if key == "" {
			key = string(asset.ResolvedCategory())
		}
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += asset.CurrentValue
		total += asset.CurrentValue
	}

	result := AllocationAnalysis{TotalValue: mathutil.Round(total), Allocation: []Share{}}
	maxPct := 100.0
	if total > 0 {
		maxPct = 0
	}
	for _, key := range order {
		pct := mathutil.CalculatePercentage(totals[key], total)
		if total > 0 && pct > maxPct {
			maxPct = pct
		}
		result.Allocation = append(result.Allocation, Share{Name: key, Amount: mathutil.Round(totals[key]), Percentage: mathutil.Round(pct)})
	}
	sortShares(result.Allocation)

	score := float64(len(order)*20) * (100 - maxPct) / 100
	if score > 100 {
		score = 100
	}
	result.DiversificationScore = mathutil.Round(score)
	return result
}

// AnalyzeDebt summarises active debts and orders them for the avalanche
// (highest rate first) and snowball (smallest balance first) strategies.
func AnalyzeDebt(debts []finance.Debt) DebtAnalysis {
	active := finance.ActiveDebts(debts)
	result := DebtAnalysis{
		Debts:          []DebtDetail{},
		AvalancheOrder: []string{},
		SnowballOrder:  []string{},
	}

	total, payments := 0.0, 0.0
	for _, d := range active {
		total += d.Balance
		payments += amortization.MonthlyEquivalent(d.Payment, d.Frequency)
	}
	result.TotalDebt = mathutil.Round(total)
	result.TotalMonthlyPayment = mathutil.Round(payments)

	weighted := 0.0
	for _, d := range active {
		if total > 0 {
			weighted += d.InterestRate * d.Balance / total
		}
		detail := DebtDetail{
			ID:             d.ID,
			Name:           d.Name,
			Balance:        d.Balance,
			InterestRate:   d.InterestRate,
			MonthlyPayment: mathutil.Round(amortization.MonthlyEquivalent(d.Payment, d.Frequency)),
		}
		if months, ok := amortization.MonthsToPayoff(d.Balance, d.InterestRate, d.Payment, d.Frequency); ok {
			interest, _ := amortization.TotalInterest(d.Balance, d.InterestRate, d.Payment, d.Frequency)
			detail.MonthsToPayoff = &months
			detail.TotalInterest = &interest
		}
		result.Debts = append(result.Debts, detail)
	}
	result.AverageInterestRate = mathutil.Round(weighted)

	avalanche := append([]DebtDetail(nil), result.Debts...)
	sort.SliceStable(avalanche, func(i, j int) bool { return avalanche[i].InterestRate > avalanche[j].InterestRate })
	snowball := append([]DebtDetail(nil), result.Debts...)
	sort.SliceStable(snowball, func(i, j int) bool { return snowball[i].Balance < snowball[j].Balance })
	for i := range avalanche {
		result.AvalancheOrder = append(result.AvalancheOrder, avalanche[i].ID)
		result.SnowballOrder = append(result.SnowballOrder, snowball[i].ID)
	}
	return result
}

// Recommend turns the headline ratios into recommendations.
func Recommend(savingsRate, debtToIncome, diversification, averageRate float64) []Recommendation {
	recommendations := []Recommendation{}
	if savingsRate < constants.TargetSavingsRate {
		recommendations = append(recommendations, Recommendation{
			Category:    "savings",
			Priority:    PriorityHigh,
			Title:       "Increase Savings Rate",
			Description: fmt.Sprintf("You save %s of your monthly income. Aim for at least %s and review expenses to find areas where you can cut back.",
				format.Percent(savingsRate), format.Percent(constants.TargetSavingsRate)),
		})
	}
	if debtToIncome > constants.MaxDebtToIncome {
		recommendations = append(recommendations, Recommendation{
			Category:    "debt",
			Priority:    PriorityHigh,
			Title:       "Reduce Debt-to-Income Ratio",
			Description: fmt.Sprintf("Your debt-to-income ratio is %s, above %s. Consider debt consolidation or accelerated repayment.",
				format.Percent(debtToIncome), format.Percent(constants.MaxDebtToIncome)),
		})
	}
	if averageRate > constants.HighInterestRate {
		recommendations = append(recommendations, Recommendation{
			Category:    "debt",
			Priority:    PriorityMedium,
			Title:       "High Interest Debt",
			Description: fmt.Sprintf("Your debts average %s interest. Consider refinancing or moving card balances to lower-interest options.",
				format.Percent(averageRate)),
		})
	}
	if diversification < constants.MinDiversificationScore {
		recommendations = append(recommendations, Recommendation{
			Category:    "investment",
			Priority:    PriorityMedium,
			Title:       "Improve Portfolio Diversification",
			Description: "Your portfolio could benefit from spreading value across more asset types.",
		})
	}
	return recommendations
}

func group(txns []finance.Transaction, key func(finance.Transaction) string) ([]Share, float64) {
	index := map[string]int{}
	shares := []Share{}
	total := 0.0
	for _, t := range txns {
		name := strings.TrimSpace(key(t))
		if name == "" {
			name = uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(shares)
			index[name] = i
			shares = append(shares, Share{Name: name})
		}
		shares[i].Amount += t.Magnitude()
		shares[i].Count++
		total += t.Magnitude()
	}
	for i := range shares {
		shares[i].Percentage = mathutil.Round(mathutil.CalculatePercentage(shares[i].Amount, total))
		shares[i].Amount = mathutil.Round(shares[i].Amount)
	}
	sortShares(shares)
	return shares, total
}

func sortShares(shares []Share) {
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Amount != shares[j].Amount {
			return shares[i].Amount > shares[j].Amount
		}
		return shares[i].Name < shares[j].Name
	})
}
