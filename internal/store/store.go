// Package store loads user portfolios from a persistent or in-memory source.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"golang.org/x/sync/errgroup"
)

// ErrUserNotFound is returned when no user has the requested id.
var ErrUserNotFound = errors.New("user not found")

// AssetStatusSold marks an asset that no longer belongs to the user.
const AssetStatusSold = "sold"

// User is the profile data a projection needs.
type User struct {
	ID            string
	Email         string
	Name          string
	MonthlyIncome float64
	SavingsGoal   float64
}

// Store reads the finance records of one user. Listings exclude sold assets
// but keep paid-off debts; callers filter those through finance.ActiveDebts.
type Store interface {
	GetUser(ctx context.Context, userID string) (User, error)
	ListAssets(ctx context.Context, userID string) ([]finance.Asset, error)
	ListDebts(ctx context.Context, userID string) ([]finance.Debt, error)
	ListTransactions(ctx context.Context, userID string, since time.Time) ([]finance.Transaction, error)
}

// Writer persists finance records.
type Writer interface {
	SaveUser(ctx context.Context, user User) error
	SaveAsset(ctx context.Context, userID, status string, asset finance.Asset) error
	SaveDebt(ctx context.Context, userID string, debt finance.Debt) error
	SaveTransaction(ctx context.Context, userID string, txn finance.Transaction) error
}

// LoadPortfolio reads the user profile and records concurrently and bundles
// them as of asOf. Transactions older than lookbackMonths before asOf's month
// are not loaded.
func LoadPortfolio(ctx context.Context, s Store, userID string, asOf time.Time, lookbackMonths int) (finance.Portfolio, error) {
	var (
		user   User
		assets []finance.Asset
		debts  []finance.Debt
		txns   []finance.Transaction
	)
	since := time.Time{}
	if lookbackMonths > 0 {
		since = datetime.AddMonths(datetime.MonthStart(asOf), -lookbackMonths)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.GetUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.ListAssets(gctx, userID)
		if err != nil {
			return fmt.Errorf("list assets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		debts, err = s.ListDebts(gctx, userID)
		if err != nil {
			return fmt.Errorf("list debts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txns, err = s.ListTransactions(gctx, userID, since)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return finance.Portfolio{}, err
	}

	return finance.Portfolio{
		AsOf:          asOf,
		Assets:        assets,
		Debts:         debts,
		Transactions:  txns,
		MonthlyIncome: user.MonthlyIncome,
		SavingsGoal:   user.SavingsGoal,
	}, nil
}
