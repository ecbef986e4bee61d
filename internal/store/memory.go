package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iwvelando/finance-projection/pkg/finance"
)

type memoryAsset struct {
	status string
	asset  finance.Asset
}

// Memory is a Store kept in process memory. It is safe for concurrent use.
type Memory struct {
	mu           sync.RWMutex
	users        map[string]User
	assets       map[string][]memoryAsset
	debts        map[string][]finance.Debt
	transactions map[string][]finance.Transaction
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:        map[string]User{},
		assets:       map[string][]memoryAsset{},
		debts:        map[string][]finance.Debt{},
		transactions: map[string][]finance.Transaction{},
	}
}

func (m *Memory) GetUser(_ context.Context, userID string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userID]
	if !ok {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return user, nil
}

func (m *Memory) ListAssets(_ context.Context, userID string) ([]finance.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []finance.Asset{}
	for _, a := range m.assets[userID] {
		if a.status != AssetStatusSold {
			out = append(out, a.asset)
		}
	}
	return out, nil
}

func (m *Memory) ListDebts(_ context.Context, userID string) ([]finance.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.Debt{}, m.debts[userID]...), nil
}

func (m *Memory) ListTransactions(_ context.Context, userID string, since time.Time) ([]finance.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []finance.Transaction{}
	for _, t := range m.transactions[userID] {
		if since.IsZero() || !t.Date.Before(since) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) SaveUser(_ context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *Memory) SaveAsset(_ context.Context, userID, status string, asset finance.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryAsset{status: status, asset: asset}
	for i, existing := range m.assets[userID] {
		if existing.asset.ID == asset.ID {
			m.assets[userID][i] = entry
			return nil
		}
	}
	m.assets[userID] = append(m.assets[userID], entry)
	return nil
}

func (m *Memory) SaveDebt(_ context.Context, userID string, debt finance.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.debts[userID] {
		if existing.ID == debt.ID {
			m.debts[userID][i] = debt
			return nil
		}
	}
	m.debts[userID] = append(m.debts[userID], debt)
	return nil
}

func (m *Memory) SaveTransaction(_ context.Context, userID string, txn finance.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.transactions[userID] {
		if existing.ID == txn.ID {
			m.transactions[userID][i] = txn
			return nil
		}
	}
	m.transactions[userID] = append(m.transactions[userID], txn)
	return nil
}
