package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/series"
)

// ToFinance converts the configured portfolio into engine snapshots. Missing
// identifiers are derived from the entry's kind, position and name so repeated
// conversions of the same document yield the same IDs.
func (p Portfolio) ToFinance() (finance.Portfolio, error) {
	return p.ToFinanceAt(time.Now())
}

// ToFinanceAt converts the portfolio using now when no startDate is set.
func (p Portfolio) ToFinanceAt(now time.Time) (finance.Portfolio, error) {
	out := finance.Portfolio{
		AsOf:          datetime.Day(now.UTC()),
		MonthlyIncome: p.MonthlyIncome,
		SavingsGoal:   p.SavingsGoal,
	}
	if strings.TrimSpace(p.StartDate) != "" {
		start, err := datetime.ParseDate(p.StartDate)
		if err != nil {
			return finance.Portfolio{}, finance.InvalidInput("start date %q: %v", p.StartDate, err)
		}
		out.AsOf = start
	}

	for i, a := range p.Assets {
		asset, err := a.ToAsset(i)
		if err != nil {
			return finance.Portfolio{}, err
		}
		out.Assets = append(out.Assets, asset)
	}
	for i, d := range p.Debts {
		debt, err := d.ToDebt(i)
		if err != nil {
			return finance.Portfolio{}, err
		}
		out.Debts = append(out.Debts, debt)
	}
	for i, t := range p.Transactions {
		txn, err := t.ToTransaction(i)
		if err != nil {
			return finance.Portfolio{}, err
		}
		out.Transactions = append(out.Transactions, txn)
	}
	return out, nil
}

// ToAsset converts an AssetConfig to a finance.Asset.
func (a AssetConfig) ToAsset(index int) (finance.Asset, error) {
	asset := finance.Asset{
		ID:               identifier(a.ID, "asset", index, a.Name),
		Name:             a.Name,
		Type:             a.Type,
		Category:         finance.AssetCategory(strings.ToLower(strings.TrimSpace(a.Category))),
		CurrentValue:     a.CurrentValue,
		AnnualReturn:     a.AnnualReturn,
		InterestRate:     a.InterestRate,
		AcquisitionValue: a.AcquisitionValue,
	}
	if asset.Category == "" {
		asset.Category = finance.CategoryForType(a.Type)
	}
	if a.AcquisitionDate != "" {
		acquired, err := datetime.ParseDate(a.AcquisitionDate)
		if err != nil {
			return finance.Asset{}, finance.InvalidInput("asset %s acquisition date %q: %v", asset.ID, a.AcquisitionDate, err)
		}
		asset.AcquisitionDate = acquired
	}

	points := make([]series.Point, 0, len(a.History))
	for _, h := range a.History {
		date, err := datetime.ParseDate(h.Date)
		if err != nil {
			return finance.Asset{}, finance.InvalidInput("asset %s valuation date %q: %v", asset.ID, h.Date, err)
		}
		points = append(points, series.Point{Time: date, Amount: h.Value})
	}
	asset.History = series.New(points)
	return asset, nil
}

// ToDebt converts a DebtConfig to a finance.Debt.
func (d DebtConfig) ToDebt(index int) (finance.Debt, error) {
	id := identifier(d.ID, "debt", index, d.Name)
	freq, err := finance.ParsePaymentFrequency(d.Frequency)
	if err != nil {
		return finance.Debt{}, fmt.Errorf("debt %s: %w", id, err)
	}
	status := finance.DebtStatus(strings.ToLower(strings.TrimSpace(d.Status)))
	if status == "" {
		status = finance.StatusCurrent
	}
	return finance.Debt{
		ID:           id,
		Name:         d.Name,
		Type:         d.Type,
		Balance:      d.Balance,
		InterestRate: d.InterestRate,
		Payment:      d.Payment,
		Frequency:    freq,
		Status:       status,
	}, nil
}

// ToTransaction converts a TransactionConfig to a finance.Transaction.
func (t TransactionConfig) ToTransaction(index int) (finance.Transaction, error) {
	id := identifier(t.ID, "transaction", index, t.Description)
	date, err := datetime.ParseDate(t.Date)
	if err != nil {
		return finance.Transaction{}, finance.InvalidInput("transaction %s date %q: %v", id, t.Date, err)
	}
	kind := finance.TransactionType(strings.ToLower(strings.TrimSpace(t.Type)))
	switch kind {
	case "", finance.Income, finance.Expense, finance.Transfer:
	default:
		return finance.Transaction{}, finance.InvalidInput("transaction %s has unknown type %q", id, t.Type)
	}
	return finance.Transaction{
		ID:          id,
		Date:        date,
		Amount:      t.Amount,
		Type:        kind,
		Category:    t.Category,
		Description: t.Description,
		Source:      t.Source,
	}, nil
}

func identifier(id, kind string, index int, name string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d/%s", kind, index, name))).String()
}
