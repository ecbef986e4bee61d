package optimizer

import (
	"strings"
	"testing"

	"github.com/iwvelando/finance-projection/internal/config"
	"github.com/iwvelando/finance-projection/pkg/amortization"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"go.uber.org/zap"
)

func newRunner(t *testing.T, target int) *Runner {
	t.Helper()
	runner, err := NewRunner(zap.NewNop(), config.PayoffConfig{TargetMonths: target})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return runner
}

func TestRunMatchesAnnuityPayment(t *testing.T) {
	runner := newRunner(t, 24)
	debts := []finance.Debt{
		{ID: "loan", Name: "Loan", Balance: 10000, InterestRate: 12, Payment: 200, Frequency: finance.Monthly, Status: finance.StatusCurrent},
	}

	summaries, err := runner.Run(debts, 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]

	annuity := amortization.CalculateMonthlyPayment(10000, 12, 24)
	if s.Value < annuity-0.01 || s.Value > annuity+0.02 {
		t.Errorf("Value = %.2f, expected about %.2f", s.Value, annuity)
	}
	if !s.Converged {
		t.Error("expected the search to converge")
	}
	if s.MonthsToPayoff > 24 {
		t.Errorf("MonthsToPayoff = %d, expected at most 24", s.MonthsToPayoff)
	}
	if s.Original != 200 || s.TargetID != "loan" || s.Field != fieldPayment {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.InterestSaved <= 0 {
		t.Errorf("expected interest savings, got %.2f", s.InterestSaved)
	}
}

func TestRunSkipsInactiveDebts(t *testing.T) {
	runner := newRunner(t, 12)
	debts := []finance.Debt{
		{ID: "paid", Name: "Paid", Balance: 0, Status: finance.StatusPaidOff},
		{ID: "empty", Name: "Empty", Balance: 0, Status: finance.StatusCurrent},
	}
	summaries, err := runner.Run(debts, 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %+v", summaries)
	}
}

func TestRunCurrentPaymentAlreadySufficient(t *testing.T) {
	runner := newRunner(t, 0)
	debts := []finance.Debt{
		{ID: "car", Name: "Car", Balance: 1200, InterestRate: 0, Payment: 600, Frequency: finance.Monthly, Status: finance.StatusCurrent},
	}
	summaries, err := runner.Run(debts, 12)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	s := summaries[0]
	if s.Value < 99.99 || s.Value > 100.02 {
		t.Errorf("Value = %.2f, expected about 100", s.Value)
	}
	if len(s.Notes) != 1 || !strings.Contains(s.Notes[0], "already pays off") {
		t.Errorf("expected an already-sufficient note, got %v", s.Notes)
	}
}

func TestRunDisabled(t *testing.T) {
	runner := newRunner(t, 0)
	summaries, err := runner.Run([]finance.Debt{{ID: "x", Balance: 100, Payment: 10}}, 0)
	if err != nil || summaries != nil {
		t.Errorf("expected nothing to run, got %v %v", summaries, err)
	}
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	if _, err := NewRunner(nil, config.PayoffConfig{TargetMonths: -3}); err == nil {
		t.Error("expected error for negative target")
	}
}
