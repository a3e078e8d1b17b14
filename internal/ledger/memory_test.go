package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBankCollectAndTransfer(t *testing.T) {
	bank := NewMemoryBank()
	ctx := context.Background()
	account := uuid.New()

	require.NoError(t, bank.Transfer(ctx, account, 250))
	assert.Equal(t, uint64(250), bank.Balance(account))

	require.NoError(t, bank.Collect(ctx, account, 100))
	assert.Equal(t, uint64(150), bank.Balance(account))
}

func TestMemoryBankCollectUnknownAccount(t *testing.T) {
	bank := NewMemoryBank()
	err := bank.Collect(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestMemoryBankCollectInsufficientFunds(t *testing.T) {
	bank := NewMemoryBank()
	ctx := context.Background()
	account := uuid.New()

	require.NoError(t, bank.Transfer(ctx, account, 50))
	err := bank.Collect(ctx, account, 100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// A failed collect must not touch the balance.
	assert.Equal(t, uint64(50), bank.Balance(account))
}

func TestMemoryBankConcurrentCollects(t *testing.T) {
	bank := NewMemoryBank()
	ctx := context.Background()
	account := uuid.New()

	require.NoError(t, bank.Transfer(ctx, account, 100))

	// 10 goroutines race to collect 100; exactly one can win.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bank.Collect(ctx, account, 100); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, uint64(0), bank.Balance(account))
}
