package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/series"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLite opens (creating if needed) the database at dbPath and applies
// pending migrations.
func NewSQLite(dbPath string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug(fmt.Sprintf("opened sqlite store at %s", dbPath),
		zap.String("op", "store.NewSQLite"),
	)
	return &SQLite{db: db, logger: logger}, nil
}

// RunMigrations applies the embedded migrations on a dedicated connection.
func RunMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetUser returns the user, or ErrUserNotFound.
func (s *SQLite) GetUser(ctx context.Context, userID string) (User, error) {
	user := User{ID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT email, name, monthly_income, savings_goal FROM users WHERE id = ?`, userID,
	).Scan(&user.Email, &user.Name, &user.MonthlyIncome, &user.SavingsGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return user, nil
}

// ListAssets returns the user's non-archived assets with their valuation history.
func (s *SQLite) ListAssets(ctx context.Context, userID string) ([]finance.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, current_value, annual_return, interest_rate,
		       acquisition_value, acquisition_date
		FROM assets
		WHERE user_id = ? AND status != ?
		ORDER BY created_at, id`, userID, AssetStatusSold)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := []finance.Asset{}
	index := map[string]int{}
	for rows.Next() {
		var (
			a        finance.Asset
			acquired string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.CurrentValue, &a.AnnualReturn,
			&a.InterestRate, &a.AcquisitionValue, &acquired); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		if acquired != "" {
			if a.AcquisitionDate, err = datetime.ParseDate(acquired); err != nil {
				return nil, fmt.Errorf("asset %s: %w", a.ID, err)
			}
		}
		a.Category = finance.CategoryForType(a.Type)
		index[a.ID] = len(assets)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}

	history, err := s.valuations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for id, points := range history {
		if i, ok := index[id]; ok {
			assets[i].History = series.New(points)
		}
	}
	return assets, nil
}

func (s *SQLite) valuations(ctx context.Context, userID string) (map[string][]series.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.asset_id, v.valuation_date, v.value
		FROM asset_valuations v
		JOIN assets a ON a.id = v.asset_id
		WHERE a.user_id = ?
		ORDER BY v.valuation_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("query valuations: %w", err)
	}
	defer rows.Close()

	out := map[string][]series.Point{}
	for rows.Next() {
		var (
			id, date string
			value    float64
		)
		if err := rows.Scan(&id, &date, &value); err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		t, err := datetime.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("valuation of %s: %w", id, err)
		}
		out[id] = append(out[id], series.Point{Time: t, Amount: value})
	}
	return out, rows.Err()
}

// ListDebts returns the user's debts.
func (s *SQLite) ListDebts(ctx context.Context, userID string) ([]finance.Debt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, status, current_balance, interest_rate,
		       payment_amount, payment_frequency
		FROM debts
		WHERE user_id = ?
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	debts := []finance.Debt{}
	for rows.Next() {
		var (
			d         finance.Debt
			status    string
			frequency string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &status, &d.Balance, &d.InterestRate,
			&d.Payment, &frequency); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.Frequency, err = finance.ParsePaymentFrequency(frequency); err != nil {
			return nil, fmt.Errorf("debt %s: %w", d.ID, err)
		}
		d.Status = finance.DebtStatus(status)
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debts: %w", err)
	}
	return debts, nil
}

// ListTransactions returns the user's transactions, limited to on or after since when it is set.
func (s *SQLite) ListTransactions(ctx context.Context, userID string, since time.Time) ([]finance.Transaction, error) {
	query := `
		SELECT id, transaction_date, amount, type, category, description, source_account
		FROM transactions
		WHERE user_id = ?`
	args := []interface{}{userID}
	if !since.IsZero() {
		query += ` AND transaction_date >= ?`
		args = append(args, since.Format(constants.DateLayout))
	}
	query += ` ORDER BY transaction_date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txns := []finance.Transaction{}
	for rows.Next() {
		var (
			t    finance.Transaction
			date string
			kind string
		)
		if err := rows.Scan(&t.ID, &date, &t.Amount, &kind, &t.Category, &t.Description, &t.Source); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = datetime.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		t.Type = finance.TransactionType(kind)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	s.logger.Debug(fmt.Sprintf("loaded %d transactions for %s", len(txns), userID),
		zap.String("op", "store.ListTransactions"),
	)
	return txns, nil
}

// SaveUser upserts the user.
func (s *SQLite) SaveUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, monthly_income, savings_goal)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			monthly_income = excluded.monthly_income,
			savings_goal = excluded.savings_goal`,
		user.ID, user.Email, user.Name, user.MonthlyIncome, user.SavingsGoal)
	if err != nil {
		return fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return nil
}

// SaveAsset upserts the asset and replaces its valuation history.
func (s *SQLite) SaveAsset(ctx context.Context, userID, status string, asset finance.Asset) error {
	if status == "" {
		status = "active"
	}
	acquired := ""
	if !asset.AcquisitionDate.IsZero() {
		acquired = asset.AcquisitionDate.Format(constants.DateLayout)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO assets (id, user_id, name, type, status, current_value, annual_return,
			interest_rate, acquisition_value, acquisition_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			status = excluded.status,
			current_value = excluded.current_value,
			annual_return = excluded.annual_return,
			interest_rate = excluded.interest_rate,
			acquisition_value = excluded.acquisition_value,
			acquisition_date = excluded.acquisition_date`,
		asset.ID, userID, asset.Name, assetType(asset), status, asset.CurrentValue,
		asset.AnnualReturn, asset.InterestRate, asset.AcquisitionValue, acquired); err != nil {
		return fmt.Errorf("save asset %s: %w", asset.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM asset_valuations WHERE asset_id = ?`, asset.ID); err != nil {
		return fmt.Errorf("clear valuations of %s: %w", asset.ID, err)
	}
	for _, p := range asset.History.Points() {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO asset_valuations (asset_id, valuation_date, value) VALUES (?, ?, ?)`,
			asset.ID, p.Time.Format(constants.DateLayout), p.Amount); err != nil {
			return fmt.Errorf("save valuation of %s: %w", asset.ID, err)
		}
	}
	return tx.Commit()
}

// SaveDebt upserts the debt.
func (s *SQLite) SaveDebt(ctx context.Context, userID string, debt finance.Debt) error {
	status := debt.Status
	if status == "" {
		status = finance.StatusCurrent
	}
	frequency := debt.Frequency
	if frequency == "" {
		frequency = finance.Monthly
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO debts (id, user_id, name, type, status, current_balance, interest_rate,
			payment_amount, payment_frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			status = excluded.status,
			current_balance = excluded.current_balance,
			interest_rate = excluded.interest_rate,
			payment_amount = excluded.payment_amount,
			payment_frequency = excluded.payment_frequency`,
		debt.ID, userID, debt.Name, debt.Type, string(status), debt.Balance, debt.InterestRate,
		debt.Payment, string(frequency))
	if err != nil {
		return fmt.Errorf("save debt %s: %w", debt.ID, err)
	}
	return nil
}

// SaveTransaction upserts the transaction.
func (s *SQLite) SaveTransaction(ctx context.Context, userID string, txn finance.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO transactions (id, user_id, transaction_date, amount, type,
			category, description, source_account)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, userID, txn.Date.Format(constants.DateLayout), txn.Amount, string(txn.Type),
		txn.Category, txn.Description, txn.Source)
	if err != nil {
		return fmt.Errorf("save transaction %s: %w", txn.ID, err)
	}
	return nil
}

func assetType(a finance.Asset) string {
	if a.Type != "" {
		return a.Type
	}
	return string(a.ResolvedCategory())
}
