package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/finance-projection/internal/config"
	"github.com/iwvelando/finance-projection/internal/projection"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/output"
	"go.uber.org/zap"
)

const fixture = "../test_config.yaml"

func loadFixture(t *testing.T) (*config.Configuration, finance.Portfolio, *projection.Engine) {
	t.Helper()

	conf, err := config.LoadConfiguration(fixture)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	portfolio, err := conf.Portfolio.ToFinance()
	if err != nil {
		t.Fatalf("ToFinance() error = %v", err)
	}
	engine, err := projection.NewEngine(zap.NewNop(), projection.OptionsFromConfig(conf.Projection))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return conf, portfolio, engine
}

// TestFixtureValidation checks the example configuration decodes with only the
// expected transfer warning.
func TestFixtureValidation(t *testing.T) {
	conf, _, _ := loadFixture(t)

	if conf.Projection.Months != 12 || conf.Projection.Payoff.TargetMonths != 24 {
		t.Errorf("unexpected projection settings: %+v", conf.Projection)
	}
	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "transfer") {
		t.Errorf("expected a single transfer warning, got %v", warnings)
	}
}

func TestPortfolioProjectionEndToEnd(t *testing.T) {
	conf, portfolio, engine := loadFixture(t)

	result, err := engine.ProjectPortfolio(projection.PortfolioRequest{
		Portfolio: portfolio,
		Months:    conf.Projection.Months,
	})
	if err != nil {
		t.Fatalf("ProjectPortfolio() error = %v", err)
	}

	if result.AsOf != "2025-01-15" {
		t.Errorf("AsOf = %s, want 2025-01-15", result.AsOf)
	}
	if got := result.CurrentNetWorth.StringFixed(2); got != "152300.00" {
		t.Errorf("CurrentNetWorth = %s, want 152300.00", got)
	}
	if len(result.MonthlyProjections) != 12 || len(result.Assets) != 4 || len(result.Debts) != 3 {
		t.Fatalf("unexpected result shape: %d points, %d assets, %d debts",
			len(result.MonthlyProjections), len(result.Assets), len(result.Debts))
	}
	for _, point := range result.MonthlyProjections {
		if !point.NetWorth.Equal(point.TotalAssets.Sub(point.TotalDebts)) {
			t.Errorf("month %d: net worth %s != %s - %s", point.Month, point.NetWorth, point.TotalAssets, point.TotalDebts)
		}
	}
	for _, debt := range result.Debts {
		for m := 1; m < len(debt.Balances); m++ {
			if debt.Balances[m].GreaterThan(debt.Balances[m-1]) {
				t.Errorf("debt %s balance rose at month %d", debt.ID, m)
			}
		}
	}
	if len(result.Summary.PayoffPlans) == 0 {
		t.Errorf("expected payoff plans for a 24 month target")
	}
}

func TestCashFlowProjectionEndToEnd(t *testing.T) {
	conf, portfolio, engine := loadFixture(t)

	result, err := engine.ProjectCashFlow(projection.CashFlowRequest{
		Portfolio: portfolio,
		Months:    conf.Projection.Months,
	})
	if err != nil {
		t.Fatalf("ProjectCashFlow() error = %v", err)
	}
	if len(result.MonthlyProjections) != 12 {
		t.Fatalf("expected 12 months, got %d", len(result.MonthlyProjections))
	}
	for _, month := range result.MonthlyProjections {
		want := month.Income.Sub(month.Expenses).Sub(month.DebtPayments).Add(month.AssetReturns)
		if !month.NetCashFlow.Equal(want) {
			t.Errorf("month %d: net %s, want %s", month.Month, month.NetCashFlow, want)
		}
	}

	found := false
	for _, item := range result.Recurring {
		if item.Description == "Streaming" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Streaming to be detected as recurring, got %+v", result.Recurring)
	}
}

// TestOutputFormats renders both projections in every supported format.
func TestOutputFormats(t *testing.T) {
	conf, portfolio, engine := loadFixture(t)

	portfolioResult, err := engine.ProjectPortfolio(projection.PortfolioRequest{Portfolio: portfolio, Months: conf.Projection.Months})
	if err != nil {
		t.Fatalf("ProjectPortfolio() error = %v", err)
	}
	cashFlowResult, err := engine.ProjectCashFlow(projection.CashFlowRequest{Portfolio: portfolio, Months: conf.Projection.Months})
	if err != nil {
		t.Fatalf("ProjectCashFlow() error = %v", err)
	}

	for _, result := range []interface{}{portfolioResult, cashFlowResult} {
		for _, format := range []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON} {
			var buf bytes.Buffer
			if err := output.Write(&buf, format, result); err != nil {
				t.Fatalf("Write(%s, %T) error = %v", format, result, err)
			}
			if buf.Len() == 0 {
				t.Errorf("Write(%s, %T) produced no output", format, result)
			}

			switch format {
			case constants.OutputFormatCSV:
				rows, err := csv.NewReader(&buf).ReadAll()
				if err != nil {
					t.Fatalf("CSV output for %T does not parse: %v", result, err)
				}
				if len(rows) != conf.Projection.Months+1 {
					t.Errorf("CSV output for %T has %d rows, want %d", result, len(rows), conf.Projection.Months+1)
				}
			case constants.OutputFormatJSON:
				var decoded map[string]interface{}
				if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
					t.Fatalf("JSON output for %T does not parse: %v", result, err)
				}
				if _, ok := decoded["monthly_projections"]; !ok {
					t.Errorf("JSON output for %T lacks monthly_projections", result)
				}
			}
		}
	}
}
