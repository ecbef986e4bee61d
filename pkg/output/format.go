// Package output renders projection results for the terminal, spreadsheets
// and other programs.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-projection/internal/projection"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders result, a *projection.PortfolioResult or
// *projection.CashFlowResult, in the named format.
func Write(w io.Writer, format string, result interface{}) error {
	switch format {
	case constants.OutputFormatJSON:
		return JSON(w, result)
	case constants.OutputFormatCSV, constants.OutputFormatPretty:
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	switch r := result.(type) {
	case *projection.PortfolioResult:
		if format == constants.OutputFormatCSV {
			return PortfolioCSV(w, r)
		}
		return PrettyPortfolio(w, r)
	case *projection.CashFlowResult:
		if format == constants.OutputFormatCSV {
			return CashFlowCSV(w, r)
		}
		return PrettyCashFlow(w, r)
	default:
		return fmt.Errorf("cannot render %T", result)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// PrettyPortfolio outputs a human-readable rather than machine-readable table.
func PrettyPortfolio(w io.Writer, result *projection.PortfolioResult) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	ew.printf(p, "--- Portfolio projection from %s over %d months ---\n", result.AsOf, result.Months)
	ew.printf(p, "Current net worth: %s (assets %s, debts %s)\n\n",
		money(p, result.CurrentNetWorth), money(p, result.CurrentAssets), money(p, result.CurrentDebts))
	ew.printf(p, "Month | Date       | Total Assets     | Total Debts      | Net Worth\n")
	ew.printf(p, "_____ | __________ | ________________ | ________________ | ________________\n")
	for _, point := range result.MonthlyProjections {
		ew.printf(p, "%5d | %s | %16s | %16s | %16s\n", point.Month, point.Date,
			money(p, point.TotalAssets), money(p, point.TotalDebts), money(p, point.NetWorth))
	}

	s := result.Summary
	ew.printf(p, "\nProjected net worth: %s (%.1f%% growth)\n", money(p, s.ProjectedNetWorth), s.GrowthRate)
	ew.printf(p, "Volatility: %.2f, risk: %s\n", s.Volatility, s.RiskLevel)
	if s.DebtFreeMonth != nil {
		ew.printf(p, "Debt free in month %d\n", *s.DebtFreeMonth)
	}
	for _, asset := range result.Assets {
		ew.printf(p, "Asset %s projected with %s\n", asset.Name, asset.Method)
	}
	writeList(ew, p, "Recommendations", result.Recommendations)
	writeList(ew, p, "Warnings", result.Warnings)
	return ew.err
}

// PrettyCashFlow outputs the cash-flow months as a table followed by the
// summary.
func PrettyCashFlow(w io.Writer, result *projection.CashFlowResult) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	ew.printf(p, "--- Cash flow projection from %s over %d months ---\n", result.AsOf, result.Months)
	ew.printf(p, "Month | Date       | Income         | Expenses       | Debt Payments  | Returns        | Net            | Cumulative\n")
	ew.printf(p, "_____ | __________ | ______________ | ______________ | ______________ | ______________ | ______________ | ______________\n")
	for _, m := range result.MonthlyProjections {
		ew.printf(p, "%5d | %s | %14s | %14s | %14s | %14s | %14s | %14s\n", m.Month, m.Date,
			money(p, m.Income), money(p, m.Expenses), money(p, m.DebtPayments),
			money(p, m.AssetReturns), money(p, m.NetCashFlow), money(p, m.CumulativeSavings))
	}

	s := result.Summary
	ew.printf(p, "\nIncome %s (%s, %s), expenses %s (%s, %s)\n",
		money(p, s.TotalIncome), s.IncomeMethod, s.IncomeTrend,
		money(p, s.TotalExpenses), s.ExpenseMethod, s.ExpenseTrend)
	ew.printf(p, "Net position: %s, average month %s, %d negative months\n",
		money(p, s.NetPosition), money(p, s.AverageMonthlyNet), s.NegativeMonths)
	ew.printf(p, "Savings rate: %.1f%%, debt to income: %.1f%%\n", s.SavingsRate, s.DebtToIncome)
	if s.SavingsGoal.IsPositive() {
		ew.printf(p, "Savings goal %s: %.1f%% reached\n", money(p, s.SavingsGoal), s.GoalProgress)
	}
	ew.printf(p, "Risk: %s (volatility %.2f)\n", result.RiskAnalysis.Level, result.RiskAnalysis.Volatility)

	if len(result.Recurring) > 0 {
		ew.printf(p, "\nRecurring expenses (%s per month):\n", money(p, s.RecurringMonthly))
		for _, item := range result.Recurring {
			ew.printf(p, "  %s | %s | %s | next %s\n", item.Description, item.Period,
				money(p, mathutil.Cents(item.Amount)), item.NextExpected.Format(constants.DateLayout))
		}
	}
	writeList(ew, p, "Recommendations", result.Recommendations)
	writeList(ew, p, "Warnings", result.Warnings)
	return ew.err
}

// PortfolioCSV outputs one row per projected month.
func PortfolioCSV(w io.Writer, result *projection.PortfolioResult) error {
	cw := csv.NewWriter(w)
	header := []string{"month", "date", "total_assets", "total_debts", "net_worth"}
	for _, asset := range result.Assets {
		header = append(header, fmt.Sprintf("asset (%s)", asset.Name))
	}
	for _, debt := range result.Debts {
		header = append(header, fmt.Sprintf("debt (%s)", debt.Name))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, point := range result.MonthlyProjections {
		row := []string{
			strconv.Itoa(point.Month),
			point.Date,
			fixed(point.TotalAssets),
			fixed(point.TotalDebts),
			fixed(point.NetWorth),
		}
		for _, asset := range result.Assets {
			row = append(row, fixedAt(asset.Values, point.Month))
		}
		for _, debt := range result.Debts {
			row = append(row, fixedAt(debt.Balances, point.Month))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CashFlowCSV outputs one row per projected month.
func CashFlowCSV(w io.Writer, result *projection.CashFlowResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"month", "date", "income", "expenses", "recurring_expenses",
		"debt_payments", "asset_returns", "net_cash_flow", "cumulative_savings",
	}); err != nil {
		return err
	}
	for _, m := range result.MonthlyProjections {
		if err := cw.Write([]string{
			strconv.Itoa(m.Month),
			m.Date,
			fixed(m.Income),
			fixed(m.Expenses),
			fixed(m.RecurringExpenses),
			fixed(m.DebtPayments),
			fixed(m.AssetReturns),
			fixed(m.NetCashFlow),
			fixed(m.CumulativeSavings),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(p *message.Printer, format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = p.Fprintf(e.w, format, args...)
}

func writeList(ew *errWriter, p *message.Printer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	ew.printf(p, "\n%s:\n", title)
	for _, item := range items {
		ew.printf(p, "  - %s\n", strings.TrimSpace(item))
	}
}

func money(p *message.Printer, d decimal.Decimal) string {
	if d.IsNegative() {
		return p.Sprintf("-$%.2f", d.Neg().InexactFloat64())
	}
	return p.Sprintf("$%.2f", d.InexactFloat64())
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(constants.DecimalPlaces)
}

func fixedAt(values []decimal.Decimal, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return fixed(values[i])
}
