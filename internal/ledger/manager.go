package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/errors"
)

// Manager owns the ledgers of all accounts in the process. Ledgers are
// created lazily per user and never shared across accounts; each ledger
// serializes its own operations.
type Manager struct {
	mu      sync.RWMutex
	ledgers map[string]*Ledger

	initialBalance decimal.Decimal
	feeRate        decimal.Decimal
	prices         PriceFunc
}

// NewManager creates an account manager. New accounts start with
// initialBalance cash and trade at feeRate.
func NewManager(prices PriceFunc, initialBalance, feeRate decimal.Decimal) *Manager {
	return &Manager{
		ledgers:        make(map[string]*Ledger),
		initialBalance: initialBalance,
		feeRate:        feeRate,
		prices:         prices,
	}
}

// AccountIDFor maps a user id to its account id.
func AccountIDFor(userID string) string {
	return "account-" + userID
}

// GetOrCreate returns the user's ledger, creating the account with the
// configured initial balance on first use.
func (m *Manager) GetOrCreate(userID string) *Ledger {
	accountID := AccountIDFor(userID)

	m.mu.RLock()
	l, ok := m.ledgers[accountID]
	m.mu.RUnlock()
	if ok {
		return l
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.ledgers[accountID]; ok {
		return l
	}
	l = New(Config{
		AccountID:      accountID,
		UserID:         userID,
		InitialBalance: m.initialBalance,
		FeeRate:        m.feeRate,
		Prices:         m.prices,
	})
	m.ledgers[accountID] = l
	return l
}

// Get returns the ledger for an existing account.
func (m *Manager) Get(accountID string) (*Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.ledgers[accountID]
	if !ok {
		return nil, errors.Wrapf(errors.ErrAccountNotFound, "account %s", accountID)
	}
	return l, nil
}

// AccountIDs returns the ids of all known accounts.
func (m *Manager) AccountIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.ledgers))
	for id := range m.ledgers {
		ids = append(ids, id)
	}
	return ids
}
