package projection

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/format"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"github.com/iwvelando/finance-projection/pkg/recurrence"
	"github.com/iwvelando/finance-projection/pkg/series"
	"github.com/iwvelando/finance-projection/pkg/trend"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectCashFlow projects monthly income, expenses, debt payments and asset
// returns for the req.Months months following the portfolio's as-of month.
func (e *Engine) ProjectCashFlow(req CashFlowRequest) (*CashFlowResult, error) {
	if err := e.validate(req.Portfolio, req.Months); err != nil {
		return nil, err
	}
	start := asOf(req.Portfolio)
	n := req.Months
	flows := finance.CashFlowSeries(req.Portfolio.Transactions)

	result := &CashFlowResult{
		AsOf:               start.Format(constants.DateLayout),
		Months:             n,
		MonthlyProjections: []CashFlowMonth{},
		Recommendations:    []string{},
	}

	income := e.estimateFlow(flows, series.Positive, start, n, "income")
	if income.method == MethodNone && req.Portfolio.MonthlyIncome > 0 {
		income = flowEstimate{values: flat(req.Portfolio.MonthlyIncome, n)[1:], method: MethodStated, direction: trend.Decreasing}
	}
	expenses := e.estimateFlow(flows, series.Negative, start, n, "expenses")

	result.Recurring = recurrence.Detect(finance.FilterType(req.Portfolio.Transactions, finance.Expense))
	if result.Recurring == nil {
		result.Recurring = []recurrence.Expense{}
	}
	scheduled := recurrence.Schedule(result.Recurring, datetime.AddMonths(start, 1), n)

	debtPayments := make([]float64, n)
	for _, debt := range finance.ActiveDebts(req.Portfolio.Debts) {
		schedule, err := e.debts.Schedule(debt, n)
		if err != nil {
			return nil, err
		}
		for i, p := range schedule {
			debtPayments[i] += p.Payment
		}
	}

	assetReturns := make([]float64, n)
	for _, asset := range req.Portfolio.Assets {
		values, method, warnings := e.assetValues(asset, start, n)
		result.Warnings = append(result.Warnings, warnings...)
		if method != MethodGrowth {
			continue
		}
		for m := 1; m <= n; m++ {
			assetReturns[m-1] += values[m] - values[m-1]
		}
	}

	var (
		totalIncome       = decimal.Zero
		totalExpenses     = decimal.Zero
		totalDebt         = decimal.Zero
		totalReturns      = decimal.Zero
		cumulative        = decimal.Zero
		negativeShortfall = decimal.Zero
		negativeMonths    int
	)
	nets := make([]float64, n)
	for i := 0; i < n; i++ {
		inc := mathutil.Cents(income.values[i])
		recurring := mathutil.Cents(scheduled[i])
		exp := mathutil.Cents(math.Max(expenses.values[i], scheduled[i]))
		debt := mathutil.Cents(debtPayments[i])
		ret := mathutil.Cents(assetReturns[i])
		net := inc.Sub(exp).Sub(debt).Add(ret)
		cumulative = cumulative.Add(net)

		totalIncome = totalIncome.Add(inc)
		totalExpenses = totalExpenses.Add(exp)
		totalDebt = totalDebt.Add(debt)
		totalReturns = totalReturns.Add(ret)
		if net.IsNegative() {
			negativeMonths++
			negativeShortfall = negativeShortfall.Add(net.Neg())
		}
		nets[i] = net.InexactFloat64()

		result.MonthlyProjections = append(result.MonthlyProjections, CashFlowMonth{
			Month:             i + 1,
			Date:              monthDate(start, i+1),
			Income:            inc,
			Expenses:          exp,
			RecurringExpenses: recurring,
			DebtPayments:      debt,
			AssetReturns:      ret,
			NetCashFlow:       net,
			CumulativeSavings: cumulative,
		})
	}

	incomeF := totalIncome.InexactFloat64()
	goal := mathutil.Cents(req.Portfolio.SavingsGoal)
	summary := CashFlowSummary{
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		TotalDebtPayments: totalDebt,
		TotalAssetReturns: totalReturns,
		NetPosition:       cumulative,
		AverageMonthlyNet: mathutil.Cents(mathutil.SafeDivide(cumulative.InexactFloat64(), float64(n))),
		NegativeMonths:    negativeMonths,
		CumulativeSavings: cumulative,
		SavingsRate:       mathutil.Round(mathutil.CalculatePercentage(incomeF-totalExpenses.InexactFloat64(), incomeF)),
		DebtToIncome:      mathutil.Round(mathutil.CalculatePercentage(totalDebt.InexactFloat64(), incomeF)),
		SavingsGoal:       goal,
		RecurringMonthly:  mathutil.Cents(recurrence.TotalMonthly(result.Recurring)),
		IncomeTrend:       income.direction,
		ExpenseTrend:      expenses.direction,
		IncomeMethod:      income.method,
		ExpenseMethod:     expenses.method,
	}
	if goal.IsPositive() && incomeF > 0 {
		progress := mathutil.CalculatePercentage(cumulative.InexactFloat64(), goal.InexactFloat64())
		summary.GoalProgress = mathutil.Round(math.Min(100, math.Max(0, progress)))
	}

	result.RiskAnalysis = analyzeRisk(nets)
	summary.Volatility = result.RiskAnalysis.Volatility
	result.Summary = summary
	result.Recommendations = cashFlowRecommendations(result, negativeShortfall)

	e.logger.Info(fmt.Sprintf("projected cash flow over %d months using %s income and %s expenses",
		n, income.method, expenses.method),
		zap.String("op", "projection.ProjectCashFlow"),
		zap.String("net_position", cumulative.StringFixed(constants.DecimalPlaces)),
		zap.Int("recurring", len(result.Recurring)),
	)
	return result, nil
}

func cashFlowRecommendations(result *CashFlowResult, shortfall decimal.Decimal) []string {
	recommendations := []string{}
	summary := result.Summary

	if summary.NetPosition.IsNegative() {
		recommendations = append(recommendations, fmt.Sprintf(
			"Projected expenses exceed income by %s over %d months. Reduce discretionary spending or find additional income.",
			format.Currency(summary.NetPosition.Neg().InexactFloat64()), result.Months))
	}
	if summary.NegativeMonths > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d of %d months are projected to run negative. Keep an emergency fund of at least %s to cover them.",
			summary.NegativeMonths, result.Months, format.Currency(shortfall.InexactFloat64())))
	}
	if result.RiskAnalysis.Level == RiskHigh {
		recommendations = append(recommendations,
			"Monthly cash flow is volatile. Diversify income sources to stabilise it.")
	}
	if summary.SavingsGoal.IsPositive() && summary.CumulativeSavings.LessThan(summary.SavingsGoal) {
		gap := summary.SavingsGoal.Sub(summary.CumulativeSavings)
		recommendations = append(recommendations, fmt.Sprintf(
			"Projected savings of %s fall short of the %s goal by %s.",
			format.Currency(summary.CumulativeSavings.InexactFloat64()),
			format.Currency(summary.SavingsGoal.InexactFloat64()),
			format.Currency(gap.InexactFloat64())))
	}
	return recommendations
}
