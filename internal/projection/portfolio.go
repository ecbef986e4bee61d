package projection

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/format"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"github.com/iwvelando/finance-projection/pkg/optimization"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectPortfolio projects every asset and active debt over req.Months and
// derives the month-by-month net worth. Invalid input fails the whole request
// with finance.ErrInvalidProjectionInput; a failing asset strategy only
// downgrades that asset to a flat projection.
func (e *Engine) ProjectPortfolio(req PortfolioRequest) (*PortfolioResult, error) {
	if err := e.validate(req.Portfolio, req.Months); err != nil {
		return nil, err
	}
	start := asOf(req.Portfolio)
	n := req.Months

	result := &PortfolioResult{
		AsOf:               start.Format(constants.DateLayout),
		Months:             n,
		Assets:             []AssetProjection{},
		Debts:              []DebtProjection{},
		MonthlyProjections: []ProjectionPoint{},
		Recommendations:    []string{},
	}

	assetTotals := zeros(n + 1)
	for _, asset := range req.Portfolio.Assets {
		values, method, warnings := e.assetValues(asset, start, n)
		result.Warnings = append(result.Warnings, warnings...)
		rounded := toCents(values)
		for m, v := range rounded {
			assetTotals[m] = assetTotals[m].Add(v)
		}
		result.Assets = append(result.Assets, AssetProjection{
			ID:       asset.ID,
			Name:     asset.Name,
			Category: asset.ResolvedCategory(),
			Method:   method,
			Values:   rounded,
		})
	}

	debtTotals := zeros(n + 1)
	active := finance.ActiveDebts(req.Portfolio.Debts)
	for _, debt := range active {
		balances, err := e.debts.Project(debt, n)
		if err != nil {
			return nil, err
		}
		rounded := toCents(balances)
		for m, v := range rounded {
			debtTotals[m] = debtTotals[m].Add(v)
		}
		result.Debts = append(result.Debts, DebtProjection{
			ID:          debt.ID,
			Name:        debt.Name,
			Balances:    rounded,
			PayoffMonth: payoffMonth(rounded),
		})
	}

	netWorth := make([]float64, n+1)
	for m := 0; m <= n; m++ {
		net := assetTotals[m].Sub(debtTotals[m])
		netWorth[m] = net.InexactFloat64()
		if m == 0 {
			continue
		}
		result.MonthlyProjections = append(result.MonthlyProjections, ProjectionPoint{
			Month:       m,
			Date:        monthDate(start, m),
			TotalAssets: assetTotals[m],
			TotalDebts:  debtTotals[m],
			NetWorth:    net,
		})
	}

	result.CurrentAssets = assetTotals[0]
	result.CurrentDebts = debtTotals[0]
	result.CurrentNetWorth = assetTotals[0].Sub(debtTotals[0])

	plans, err := e.payoff.Run(active, req.PayoffTargetMonths)
	if err != nil {
		return nil, fmt.Errorf("payoff optimization failed: %w", err)
	}

	projected := result.CurrentNetWorth
	if n > 0 {
		projected = result.MonthlyProjections[n-1].NetWorth
	}
	current := result.CurrentNetWorth.InexactFloat64()
	result.RiskAnalysis = analyzeRisk(mathutil.Diffs(netWorth))
	result.Summary = PortfolioSummary{
		CurrentNetWorth:   result.CurrentNetWorth,
		ProjectedNetWorth: projected,
		GrowthRate:        mathutil.Round(mathutil.CalculatePercentage(projected.InexactFloat64()-current, math.Abs(current))),
		Volatility:        result.RiskAnalysis.Volatility,
		RiskLevel:         result.RiskAnalysis.Level,
		DebtFreeMonth:     payoffMonth(debtTotals),
		PayoffPlans:       plans,
	}
	result.Recommendations = portfolioRecommendations(result, plans)

	e.logger.Info(fmt.Sprintf("projected portfolio of %d assets and %d debts over %d months",
		len(req.Portfolio.Assets), len(active), n),
		zap.String("op", "projection.ProjectPortfolio"),
		zap.String("net_worth", projected.StringFixed(constants.DecimalPlaces)),
	)
	return result, nil
}

func portfolioRecommendations(result *PortfolioResult, plans []optimization.Summary) []string {
	recommendations := []string{}
	summary := result.Summary

	if result.CurrentNetWorth.IsNegative() {
		recommendations = append(recommendations, fmt.Sprintf(
			"Net worth is negative at %s. Focus extra payments on the highest-rate debt first.",
			format.Currency(result.CurrentNetWorth.InexactFloat64())))
	}
	if summary.ProjectedNetWorth.LessThan(summary.CurrentNetWorth) {
		drop := summary.CurrentNetWorth.Sub(summary.ProjectedNetWorth)
		recommendations = append(recommendations, fmt.Sprintf(
			"Net worth is projected to fall by %s over %d months. Review spending and debt payments.",
			format.Currency(drop.InexactFloat64()), result.Months))
	}
	if result.Months > 0 && result.CurrentDebts.IsPositive() && summary.DebtFreeMonth == nil {
		remaining := result.MonthlyProjections[result.Months-1].TotalDebts
		recommendations = append(recommendations, fmt.Sprintf(
			"Debts remain after %d months with %s outstanding. Increase payments to shorten payoff.",
			result.Months, format.Currency(remaining.InexactFloat64())))
	}
	for _, plan := range plans {
		if plan.Value > plan.Original && plan.MonthsToPayoff > 0 {
			recommendations = append(recommendations, fmt.Sprintf(
				"Pay %s per month on %s to clear it within %d months.",
				format.Currency(plan.Value), plan.TargetName, plan.TargetMonths))
		}
	}
	if summary.RiskLevel == RiskHigh {
		recommendations = append(recommendations,
			"Projected net worth is volatile. Diversify holdings to smooth month-to-month swings.")
	}
	return recommendations
}

// payoffMonth returns the first month after 0 at which a positive starting
// balance reaches zero.
func payoffMonth(balances []decimal.Decimal) *int {
	if len(balances) == 0 || !balances[0].IsPositive() {
		return nil
	}
	for m := 1; m < len(balances); m++ {
		if balances[m].IsZero() {
			month := m
			return &month
		}
	}
	return nil
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}

func toCents(values []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = mathutil.Cents(v)
	}
	return out
}
