// internal/ledger/memory.go
package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryBank is an in-process treasury keeping account balances in a map.
// Used in development mode and in tests; production wires PostgresBank.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[uuid.UUID]uint64
}

// NewMemoryBank returns an empty bank. Accounts spring into existence on
// their first credit.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		balances: make(map[uuid.UUID]uint64),
	}
}

// Collect debits amount from the account, failing if the balance is short.
func (b *MemoryBank) Collect(ctx context.Context, from uuid.UUID, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bal, ok := b.balances[from]
	if !ok {
		return ErrUnknownAccount
	}
	if bal < amount {
		return ErrInsufficientFunds
	}
	b.balances[from] = bal - amount
	return nil
}

// Transfer credits amount to the account.
func (b *MemoryBank) Transfer(ctx context.Context, to uuid.UUID, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[to] += amount
	return nil
}

// Balance reports the account's current balance. Unknown accounts read 0.
func (b *MemoryBank) Balance(account uuid.UUID) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}
