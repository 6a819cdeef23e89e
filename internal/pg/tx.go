package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

//go:generate mockgen -source=tx.go -destination=mock_tx.go -package=pg

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

type TransactionalFn func(ctx context.Context) error

type TXManager interface {
	Begin(ctx context.Context, fn TransactionalFn) error
}

type txKey struct{}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

type Manager struct {
	pool        Pool
	maxAttempts int
	opts        pgx.TxOptions
}

func NewTXManager(pool Pool, maxAttempts int) *Manager {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Manager{
		pool:        pool,
		maxAttempts: maxAttempts,
		opts:        pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// Begin runs fn as one atomic unit. A Begin inside fn joins the outer
// transaction. Serialization failures and deadlocks are retried from scratch;
// once attempts run out the caller gets domain.ErrConflictRetryable.
func (m *Manager) Begin(ctx context.Context, fn TransactionalFn) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		err = m.run(ctx, fn)
		if !IsConflict(err) {
			return err
		}
		zap.L().Warn("transaction conflict", zap.Int("attempt", attempt), zap.Error(err))
	}
	if errors.Is(err, domain.ErrConflictRetryable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrConflictRetryable, err)
}

func (m *Manager) run(ctx context.Context, fn TransactionalFn) (err error) {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		zap.L().Error("can't begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				zap.L().Error("can't rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		zap.L().Error("can't commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// IsConflict reports whether err is a write conflict worth retrying.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrConflictRetryable) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
	}
	return false
}

// IsUniqueViolation reports whether err violates the named unique constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
