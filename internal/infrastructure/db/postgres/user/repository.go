package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"skinlib-api/internal/domain/user"
	"skinlib-api/internal/infrastructure/db/postgres"
)

// Ledger keeps scores in the users table.
type Ledger struct {
	db postgres.DB
}

func NewLedger(db postgres.DB) user.Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Balance(ctx context.Context, uid user.ID) (int64, error) {
	var score int64
	if err := l.db.QueryRow(ctx, SelectScore, int64(uid)).Scan(&score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("uid %d: %w", uid, user.ErrUserNotFound)
		}
		return 0, err
	}

	return score, nil
}

func (l *Ledger) Credit(ctx context.Context, uid user.ID, amount int64) error {
	if amount == 0 {
		return nil
	}

	var score int64
	if err := l.db.QueryRow(ctx, CreditScore, int64(uid), amount).Scan(&score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("uid %d: %w", uid, user.ErrUserNotFound)
		}
		return err
	}

	return nil
}

func (l *Ledger) Debit(ctx context.Context, uid user.ID, amount int64) error {
	if amount == 0 {
		return nil
	}

	var score int64
	err := l.db.QueryRow(ctx, DebitScore, int64(uid), amount).Scan(&score)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// nothing updated: either the account is missing or it cannot pay
	if _, err = l.Balance(ctx, uid); err != nil {
		return err
	}

	return user.ErrInsufficientBalance
}
