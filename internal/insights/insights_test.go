package insights

import (
	"math"
	"testing"
	"time"

	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

func day(month time.Month, d int) time.Time {
	year := 2025
	if month > time.January {
		year = 2024
	}
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func testDebts() []finance.Debt {
	return []finance.Debt{
		{ID: "card", Name: "Card", Balance: 2000, InterestRate: 20, Payment: 100, Frequency: finance.Monthly, Status: finance.StatusCurrent},
		{ID: "loan", Name: "Loan", Balance: 8000, InterestRate: 5, Payment: 200, Frequency: finance.Monthly, Status: finance.StatusCurrent},
		{ID: "stuck", Name: "Stuck", Balance: 1000, InterestRate: 24, Payment: 10, Frequency: finance.Monthly, Status: finance.StatusCurrent},
		{ID: "done", Name: "Done", Balance: 0, InterestRate: 30, Payment: 50, Frequency: finance.Monthly, Status: finance.StatusPaidOff},
	}
}

func TestAnalyzeSpending(t *testing.T) {
	txns := []finance.Transaction{
		{ID: "1", Date: day(time.January, 10), Amount: 300, Type: finance.Expense, Category: "groceries"},
		{ID: "2", Date: day(time.January, 1), Amount: 200, Type: finance.Expense, Category: "groceries"},
		{ID: "3", Date: day(time.January, 3), Amount: 1500, Type: finance.Expense, Category: "rent"},
		{ID: "4", Date: day(time.December, 1), Amount: 999, Type: finance.Expense, Category: "travel"},
		{ID: "5", Date: day(time.January, 5), Amount: 4000, Type: finance.Income, Category: "salary"},
	}

	result := AnalyzeSpending(txns, now, 30)
	assert.Equal(t, 2000.0, result.TotalExpenses)
	assert.Equal(t, 66.67, result.DailyAverage)
	require.Len(t, result.CategoryBreakdown, 2)
	assert.Equal(t, Share{Name: "rent", Amount: 1500, Percentage: 75, Count: 1}, result.CategoryBreakdown[0])
	assert.Equal(t, Share{Name: "groceries", Amount: 500, Percentage: 25, Count: 2}, result.CategoryBreakdown[1])

	t.Run("empty window", func(t *testing.T) {
		empty := AnalyzeSpending(nil, now, 30)
		assert.Zero(t, empty.TotalExpenses)
		assert.Zero(t, empty.DailyAverage)
		assert.Empty(t, empty.CategoryBreakdown)
	})

	t.Run("zero days", func(t *testing.T) {
		assert.Zero(t, AnalyzeSpending(txns, now, 0).DailyAverage)
	})
}

func TestAnalyzeIncome(t *testing.T) {
	txns := []finance.Transaction{
		{ID: "1", Date: day(time.January, 1), Amount: 3000, Type: finance.Income, Source: "employer"},
		{ID: "2", Date: day(time.December, 1), Amount: 3000, Type: finance.Income, Source: "employer"},
		{ID: "3", Date: day(time.November, 20), Amount: 1000, Type: finance.Income, Source: "freelance"},
		{ID: "4", Date: day(time.December, 5), Amount: 50, Type: finance.Income},
	}

	result := AnalyzeIncome(txns, now, 12)
	assert.Equal(t, 7050.0, result.TotalIncome)
	assert.Equal(t, 587.5, result.MonthlyAverage)
	require.Len(t, result.Sources, 3)
	assert.Equal(t, "employer", result.Sources[0].Name)
	assert.Equal(t, 2, result.Sources[0].Count)
	assert.InDelta(t, 85.11, result.Sources[0].Percentage, 0.01)
	assert.Equal(t, uncategorized, result.Sources[2].Name)
}

func TestAnalyzeAllocation(t *testing.T) {
	tests := []struct {
		name     string
		assets   []finance.Asset
		expected float64
	}{
		{name: "no assets", expected: 0},
		{
			name:     "single type",
			assets:   []finance.Asset{{ID: "a", Type: "savings", CurrentValue: 1000}},
			expected: 0,
		},
		{
			name: "two equal types",
			assets: []finance.Asset{
				{ID: "a", Type: "savings", CurrentValue: 5000},
				{ID: "b", Type: "stock", CurrentValue: 5000},
			},
			expected: 20,
		},
		{
			name: "five equal types",
			assets: []finance.Asset{
				{ID: "a", Type: "savings", CurrentValue: 100},
				{ID: "b", Type: "stock", CurrentValue: 100},
				{ID: "c", Type: "bond", CurrentValue: 100},
				{ID: "d", Type: "property", CurrentValue: 100},
				{ID: "e", Type: "cryptocurrency", CurrentValue: 100},
			},
			expected: 80,
		},
		{
			name: "capped at 100",
			assets: []finance.Asset{
				{ID: "a", Type: "savings", CurrentValue: 100},
				{ID: "b", Type: "stock", CurrentValue: 100},
				{ID: "c", Type: "bond", CurrentValue: 100},
				{ID: "d", Type: "property", CurrentValue: 100},
				{ID: "e", Type: "cryptocurrency", CurrentValue: 100},
				{ID: "f", Type: "etf", CurrentValue: 100},
				{ID: "g", Type: "vehicle", CurrentValue: 100},
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeAllocation(tt.assets)
			assert.InDelta(t, tt.expected, result.DiversificationScore, 0.01)
			assert.False(t, math.IsNaN(result.DiversificationScore))
		})
	}

	t.Run("groups by type", func(t *testing.T) {
		result := AnalyzeAllocation([]finance.Asset{
			{ID: "a", Type: "stock", CurrentValue: 300},
			{ID: "b", Type: "stock", CurrentValue: 300},
			{ID: "c", Category: finance.CategoryCash, CurrentValue: 400},
		})
		require.Len(t, result.Allocation, 2)
		assert.Equal(t, 1000.0, result.TotalValue)
		assert.Equal(t, Share{Name: "stock", Amount: 600, Percentage: 60}, result.Allocation[0])
		assert.Equal(t, Share{Name: "cash", Amount: 400, Percentage: 40}, result.Allocation[1])
	})
}

func TestAnalyzeDebt(t *testing.T) {
	result := AnalyzeDebt(testDebts())

	assert.Equal(t, 11000.0, result.TotalDebt)
	assert.Equal(t, 310.0, result.TotalMonthlyPayment)
	assert.InDelta(t, 9.45, result.AverageInterestRate, 0.01)
	assert.Equal(t, []string{"stuck", "card", "loan"}, result.AvalancheOrder)
	assert.Equal(t, []string{"stuck", "card", "loan"}, result.SnowballOrder)

	require.Len(t, result.Debts, 3)
	for _, d := range result.Debts {
		if d.ID == "stuck" {
			assert.Nil(t, d.MonthsToPayoff, "payment below interest never pays off")
			assert.Nil(t, d.TotalInterest)
			continue
		}
		require.NotNil(t, d.MonthsToPayoff, d.ID)
		require.NotNil(t, d.TotalInterest, d.ID)
		assert.Positive(t, *d.MonthsToPayoff)
		assert.Positive(t, *d.TotalInterest)
	}

	t.Run("no debts", func(t *testing.T) {
		empty := AnalyzeDebt(nil)
		assert.Zero(t, empty.AverageInterestRate)
		assert.Empty(t, empty.AvalancheOrder)
	})
}

func TestRecommend(t *testing.T) {
	assert.Empty(t, Recommend(25, 10, 80, 5))

	all := Recommend(10, 50, 30, 18)
	require.Len(t, all, 4)
	assert.Equal(t, "savings", all[0].Category)
	assert.Equal(t, PriorityHigh, all[0].Priority)
	assert.Equal(t, "Reduce Debt-to-Income Ratio", all[1].Title)
	assert.Equal(t, "High Interest Debt", all[2].Title)
	assert.Equal(t, PriorityMedium, all[2].Priority)
	assert.Equal(t, "investment", all[3].Category)
	assert.Contains(t, all[0].Description, "10.0%")
	assert.Contains(t, all[1].Description, "50.0%")
	assert.Contains(t, all[2].Description, "18.0%")

	// Thresholds are strict.
	assert.Empty(t, Recommend(20, 43, 60, 15))
}

func TestGenerate(t *testing.T) {
	analyzer := NewAnalyzer(zap.NewNop())

	t.Run("zero income keeps ratios at zero", func(t *testing.T) {
		report := analyzer.Generate(finance.Portfolio{
			Debts: testDebts(),
			Transactions: []finance.Transaction{
				{ID: "1", Date: day(time.January, 10), Amount: 300, Type: finance.Expense},
			},
		}, now)
		assert.Zero(t, report.Summary.MonthlyIncome)
		assert.Zero(t, report.Summary.SavingsRate)
		assert.Zero(t, report.Summary.DebtToIncome)
		assert.Equal(t, -11000.0, report.Summary.NetWorth)
		assert.Equal(t, "savings", report.Recommendations[0].Category)
	})

	t.Run("healthy portfolio", func(t *testing.T) {
		report := analyzer.Generate(finance.Portfolio{
			MonthlyIncome: 5000,
			Debts:         testDebts(),
			Assets: []finance.Asset{
				{ID: "a", Type: "savings", CurrentValue: 10000},
				{ID: "b", Type: "stock", CurrentValue: 10000},
				{ID: "c", Type: "bond", CurrentValue: 10000},
				{ID: "d", Type: "property", CurrentValue: 10000},
				{ID: "e", Type: "etf", CurrentValue: 10000},
			},
			Transactions: []finance.Transaction{
				{ID: "1", Date: day(time.January, 3), Amount: 1500, Type: finance.Expense, Category: "rent"},
			},
		}, now)
		assert.Equal(t, 5000.0, report.Summary.MonthlyIncome)
		assert.Equal(t, 1500.0, report.Summary.MonthlyExpenses)
		assert.Equal(t, 70.0, report.Summary.SavingsRate)
		assert.Equal(t, 6.2, report.Summary.DebtToIncome)
		assert.Equal(t, 39000.0, report.Summary.NetWorth)
		assert.Empty(t, report.Recommendations)
		assert.Equal(t, "2025-01-15T12:00:00Z", report.GeneratedAt)
	})
}
