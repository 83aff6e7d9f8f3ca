package user

import (
	"context"
)

// Ledger keeps the spendable score of every account. Debit must not leave a
// partial charge behind: it either takes the whole amount or fails with
// ErrInsufficientBalance.
type Ledger interface {
	Credit(ctx context.Context, uid ID, amount int64) error
	Debit(ctx context.Context, uid ID, amount int64) error
	Balance(ctx context.Context, uid ID) (int64, error)
}
