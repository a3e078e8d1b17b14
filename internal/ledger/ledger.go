// internal/ledger/ledger.go
package ledger

import "errors"

// Errors surfaced by treasury implementations. The arena wraps these rather
// than interpreting them; a failed collect or transfer always aborts the
// whole operation.
var (
	ErrUnknownAccount    = errors.New("unknown account")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
