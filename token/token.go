// Package token defines the external token-ledger capability the vesting
// engine settles against.
//
// The engine never assumes tokens physically move; it calls Transfer and
// treats any error as a full abort of the accounting mutation for that
// settlement. Production deployments bridge Transfer to their custody
// system; Memory is an in-process double for tests and development.
package token

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xraph/vesting/types"
)

// Ledger is the custody interface consumed by the vesting engine.
type Ledger interface {
	// Transfer moves amount tokens from custody to the given address.
	// A non-nil error means no tokens moved.
	Transfer(ctx context.Context, to string, amount types.Amount) error
}

// LedgerFunc is an adapter to use a plain function as a Ledger.
type LedgerFunc func(ctx context.Context, to string, amount types.Amount) error

// Transfer implements Ledger.
func (f LedgerFunc) Transfer(ctx context.Context, to string, amount types.Amount) error {
	return f(ctx, to, amount)
}

// ErrInsufficientBalance indicates the custodial balance cannot cover the
// requested transfer.
var ErrInsufficientBalance = errors.New("token: insufficient custodial balance")

// Record is one completed transfer against the in-memory ledger.
type Record struct {
	To     string
	Amount types.Amount
	At     time.Time
}

// Memory is an in-process custodial ledger holding a single pooled balance.
// It is intended for tests and local development.
type Memory struct {
	mu        sync.Mutex
	balance   types.Amount
	transfers []Record
}

// Ensure Memory implements Ledger at compile time.
var _ Ledger = (*Memory)(nil)

// NewMemory creates an in-memory ledger with the given custodial balance.
func NewMemory(balance types.Amount) *Memory {
	return &Memory{balance: balance}
}

// Transfer implements Ledger. It debits the pooled balance or fails with
// ErrInsufficientBalance, leaving the balance untouched.
func (m *Memory) Transfer(_ context.Context, to string, amount types.Amount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	m.balance = m.balance.Sub(amount)
	m.transfers = append(m.transfers, Record{To: to, Amount: amount, At: time.Now().UTC()})
	return nil
}

// Balance returns the remaining custodial balance.
func (m *Memory) Balance() types.Amount {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance
}

// Transfers returns a copy of the completed transfer records in order.
func (m *Memory) Transfers() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.transfers))
	copy(out, m.transfers)
	return out
}

// Deposit credits the custodial balance. Test helper.
func (m *Memory) Deposit(amount types.Amount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = m.balance.Add(amount)
}
