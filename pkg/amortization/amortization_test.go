package amortization

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/finance-projection/pkg/finance"
	"go.uber.org/zap"
)

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		payment  float64
		freq     finance.PaymentFrequency
		expected float64
	}{
		{"weekly", 100, finance.Weekly, 433.3333},
		{"bi-weekly", 100, finance.BiWeekly, 216.6667},
		{"monthly", 100, finance.Monthly, 100},
		{"quarterly", 300, finance.Quarterly, 100},
		{"annually", 1200, finance.Annually, 100},
		{"empty frequency", 250, "", 250},
		{"unknown frequency", 250, "daily", 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MonthlyEquivalent(tt.payment, tt.freq)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("MonthlyEquivalent(%.2f, %s) = %.4f, expected %.4f", tt.payment, tt.freq, result, tt.expected)
			}
		})
	}
}

func TestProjectDebt(t *testing.T) {
	t.Run("scenario balances", func(t *testing.T) {
		balances, err := ProjectDebt(5000, 10, 500, finance.Monthly, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := []float64{5000, 4541.67, 4079.51, 3613.51}
		for i, want := range expected {
			if math.Abs(balances[i]-want) > 0.01 {
				t.Errorf("month %d: balance %.2f, expected %.2f", i, balances[i], want)
			}
		}
	})

	t.Run("zero horizon", func(t *testing.T) {
		balances, err := ProjectDebt(1234.5, 7, 100, finance.Monthly, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(balances) != 1 || balances[0] != 1234.5 {
			t.Errorf("expected [1234.5], got %v", balances)
		}
	})

	t.Run("zero rate decreases linearly", func(t *testing.T) {
		balances, err := ProjectDebt(1000, 0, 100, finance.Monthly, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for m := 0; m <= 10; m++ {
			if want := 1000 - 100*float64(m); math.Abs(balances[m]-want) > 1e-9 {
				t.Errorf("month %d: %.2f, expected %.2f", m, balances[m], want)
			}
		}
		if balances[11] != 0 || balances[12] != 0 {
			t.Errorf("expected zero once paid off, got %.2f and %.2f", balances[11], balances[12])
		}
	})

	t.Run("zero payment and zero rate stay flat", func(t *testing.T) {
		balances, err := ProjectDebt(800, 0, 0, finance.Monthly, 6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for m, b := range balances {
			if b != 800 {
				t.Errorf("month %d: %.2f, expected 800", m, b)
			}
		}
	})

	t.Run("zero payment with interest stays flat", func(t *testing.T) {
		balances, err := ProjectDebt(1000, 12, 0, finance.Monthly, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for m, b := range balances {
			if b != 1000 {
				t.Errorf("month %d: %.2f, expected 1000", m, b)
			}
		}
		if _, ok := MonthsToPayoff(1000, 12, 0, finance.Monthly); ok {
			t.Error("a debt without payments must never be paid off")
		}
		for i, p := range Payments(balances, 12, 0, finance.Monthly) {
			if p != 0 {
				t.Errorf("payment %d = %.2f, expected 0", i, p)
			}
		}
	})

	t.Run("strictly decreasing until paid off", func(t *testing.T) {
		balances, err := ProjectDebt(1200, 12, 110, finance.Monthly, 24)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		paidAt := -1
		for m := 1; m < len(balances); m++ {
			if balances[m] < 0 {
				t.Fatalf("negative balance at month %d", m)
			}
			if paidAt >= 0 {
				if balances[m] != 0 {
					t.Errorf("balance reappeared at month %d: %.2f", m, balances[m])
				}
				continue
			}
			if balances[m] >= balances[m-1] {
				t.Fatalf("balance did not decrease at month %d: %.2f >= %.2f", m, balances[m], balances[m-1])
			}
			if balances[m] == 0 {
				paidAt = m
			}
		}
		if paidAt != 12 {
			t.Errorf("expected payoff in month 12, got %d", paidAt)
		}
	})

	t.Run("weekly payments match their monthly equivalent", func(t *testing.T) {
		weekly, err := ProjectDebt(10000, 8, 100, finance.Weekly, 36)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		monthly, err := ProjectDebt(10000, 8, 100*52.0/12.0, finance.Monthly, 36)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for m := range weekly {
			if math.Abs(weekly[m]-monthly[m]) > 1e-6 {
				t.Errorf("month %d: weekly %.4f, monthly %.4f", m, weekly[m], monthly[m])
			}
		}
	})

	t.Run("monotone non-increasing when payment covers interest", func(t *testing.T) {
		balances, err := ProjectDebt(20000, 18, 400, finance.Monthly, 120)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for m := 1; m < len(balances); m++ {
			if balances[m] > balances[m-1] {
				t.Fatalf("balance increased at month %d: %.2f > %.2f", m, balances[m], balances[m-1])
			}
			if balances[m] < 0 {
				t.Fatalf("negative balance at month %d", m)
			}
		}
	})

	t.Run("stays zero after payoff", func(t *testing.T) {
		balances, err := ProjectDebt(300, 5, 200, finance.Monthly, 6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		zero := false
		for m, b := range balances {
			if zero && b != 0 {
				t.Errorf("balance reappeared at month %d: %.2f", m, b)
			}
			if b == 0 {
				zero = true
			}
		}
		if !zero {
			t.Error("expected debt to be paid off")
		}
	})

	invalid := []struct {
		name    string
		balance float64
		rate    float64
		payment float64
		months  int
	}{
		{"negative payment", 1000, 5, -1, 12},
		{"negative months", 1000, 5, 100, -1},
		{"negative balance", -5, 5, 100, 12},
		{"negative rate", 1000, -5, 100, 12},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProjectDebt(tt.balance, tt.rate, tt.payment, finance.Monthly, tt.months)
			if !errors.Is(err, finance.ErrInvalidProjectionInput) {
				t.Errorf("expected ErrInvalidProjectionInput, got %v", err)
			}
		})
	}
}

func TestProjectGrowth(t *testing.T) {
	balances, err := ProjectGrowth(10000, 6, 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 25 {
		t.Fatalf("expected 25 values, got %d", len(balances))
	}
	for m := 1; m < len(balances); m++ {
		if balances[m] < balances[m-1] {
			t.Fatalf("growth decreased at month %d", m)
		}
	}
	if expected := 10000 * math.Pow(1.005, 24); math.Abs(balances[24]-expected) > 0.01 {
		t.Errorf("final balance %.2f, expected %.2f", balances[24], expected)
	}

	flat, err := ProjectGrowth(500, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range flat {
		if b != 500 {
			t.Errorf("expected flat 500, got %.2f", b)
		}
	}
}

func TestPayments(t *testing.T) {
	balances, _ := ProjectDebt(5000, 10, 500, finance.Monthly, 3)
	payments := Payments(balances, 10, 500, finance.Monthly)
	if len(payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(payments))
	}
	for i, p := range payments {
		if math.Abs(p-500) > 1e-6 {
			t.Errorf("payment %d = %.4f, expected 500", i, p)
		}
	}

	// The last payment only covers what is left.
	balances, _ = ProjectDebt(150, 0, 100, finance.Monthly, 3)
	payments = Payments(balances, 0, 100, finance.Monthly)
	expected := []float64{100, 50, 0}
	for i, want := range expected {
		if math.Abs(payments[i]-want) > 1e-9 {
			t.Errorf("payment %d = %.2f, expected %.2f", i, payments[i], want)
		}
	}

	// Quarterly payments apply their monthly share.
	balances, _ = ProjectDebt(3000, 0, 300, finance.Quarterly, 2)
	for i, p := range Payments(balances, 0, 300, finance.Quarterly) {
		if math.Abs(p-100) > 1e-9 {
			t.Errorf("quarterly payment %d = %.2f, expected 100", i, p)
		}
	}

	if Payments([]float64{100}, 5, 10, finance.Monthly) != nil {
		t.Error("expected nil payments for a single balance")
	}
}

func TestMonthsToPayoff(t *testing.T) {
	months, ok := MonthsToPayoff(1000, 0, 100, finance.Monthly)
	if !ok || months != 10 {
		t.Errorf("expected 10 months, got %d (ok=%v)", months, ok)
	}

	months, ok = MonthsToPayoff(10000, 24, 150, finance.Monthly)
	if ok || months != -1 {
		t.Errorf("expected never paid off, got %d (ok=%v)", months, ok)
	}

	months, ok = MonthsToPayoff(0, 5, 0, finance.Monthly)
	if !ok || months != 0 {
		t.Errorf("expected zero months for zero balance, got %d", months)
	}

	interest, ok := TotalInterest(1000, 0, 100, finance.Monthly)
	if !ok || interest != 0 {
		t.Errorf("expected zero interest, got %.2f", interest)
	}

	interest, ok = TotalInterest(5000, 10, 500, finance.Monthly)
	if !ok || interest <= 0 || interest > 500 {
		t.Errorf("unexpected total interest %.2f (ok=%v)", interest, ok)
	}
}

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		principal          float64
		annualInterestRate float64
		termMonths         int
		expectedRange      []float64 // [min, max] expected range
	}{
		{"Standard 30-year mortgage", 240000, 6.0, 360, []float64{1400, 1500}},
		{"5-year car loan", 20000, 4.0, 60, []float64{360, 380}},
		{"Zero interest loan", 10000, 0.0, 60, []float64{166, 167}},
		{"High interest loan", 10000, 18.0, 36, []float64{360, 380}},
		{"No term", 500, 5.0, 0, []float64{500, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.annualInterestRate, tt.termMonths)
			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	if got := CalculateInterestPayment(12000, 12); math.Abs(got-120) > 1e-9 {
		t.Errorf("CalculateInterestPayment() = %.2f, expected 120", got)
	}
	if got := CalculateInterestPayment(12000, 0); got != 0 {
		t.Errorf("CalculateInterestPayment() = %.2f, expected 0", got)
	}
}

func TestCalculatorSchedule(t *testing.T) {
	calc := NewCalculator(zap.NewNop())
	debt := finance.Debt{ID: "card", Balance: 5000, InterestRate: 10, Payment: 500, Frequency: finance.Monthly, Status: finance.StatusCurrent}

	schedule, err := calc.Schedule(debt, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(schedule))
	}
	if schedule[0].Interest != 41.67 || schedule[0].RemainingPrincipal != 4541.67 {
		t.Errorf("unexpected first payment %+v", schedule[0])
	}

	frozen := debt
	frozen.Payment = 0
	schedule, err = calc.Schedule(frozen, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range schedule {
		if p.Payment != 0 || p.Interest != 0 || p.RemainingPrincipal != 5000 {
			t.Errorf("expected an idle month for a debt without payments, got %+v", p)
		}
	}

	paid := debt
	paid.Status = finance.StatusPaidOff
	paid.Balance = 0
	balances, err := calc.Project(paid, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range balances {
		if b != 0 {
			t.Errorf("expected paid-off debt to stay at 0, got %.2f", b)
		}
	}

	if _, err := NewCalculator(nil).Project(finance.Debt{ID: "bad", Balance: 10, Payment: -1}, 2); !errors.Is(err, finance.ErrInvalidProjectionInput) {
		t.Errorf("expected ErrInvalidProjectionInput, got %v", err)
	}
}
