// internal/ledger/postgres.go
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBank is a treasury backed by the users table's balance column.
// Each movement runs in its own transaction; the conditional UPDATE makes a
// collect against an underfunded account a no-op we turn into an error.
type PostgresBank struct {
	pool *pgxpool.Pool
}

// NewPostgresBank wraps an existing connection pool.
func NewPostgresBank(pool *pgxpool.Pool) *PostgresBank {
	return &PostgresBank{pool: pool}
}

// Collect debits amount from the account, failing if the balance is short or
// the account does not exist.
func (b *PostgresBank) Collect(ctx context.Context, from uuid.UUID, amount uint64) error {
	return pgx.BeginTxFunc(ctx, b.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1`
		tag, err := tx.Exec(ctx, q, amount, from)
		if err != nil {
			return fmt.Errorf("debit account %s: %w", from, err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, from).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrUnknownAccount
			}
			return ErrInsufficientFunds
		}
		return nil
	})
}

// Transfer credits amount to the account.
func (b *PostgresBank) Transfer(ctx context.Context, to uuid.UUID, amount uint64) error {
	return pgx.BeginTxFunc(ctx, b.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `UPDATE users SET balance = balance + $1 WHERE id = $2`
		tag, err := tx.Exec(ctx, q, amount, to)
		if err != nil {
			return fmt.Errorf("credit account %s: %w", to, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrUnknownAccount
		}
		return nil
	})
}

// Balance reads the account's current balance.
func (b *PostgresBank) Balance(ctx context.Context, account uuid.UUID) (uint64, error) {
	var bal uint64
	err := b.pool.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, account).Scan(&bal)
	if err == pgx.ErrNoRows {
		return 0, ErrUnknownAccount
	}
	if err != nil {
		return 0, err
	}
	return bal, nil
}
