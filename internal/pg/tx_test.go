package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

var readCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func newMockManager(t *testing.T, attempts int) (*Manager, *DB, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewTXManager(mock, attempts), New(mock), mock
}

func TestManager_Begin(t *testing.T) {
	tests := []struct {
		name        string
		attempts    int
		prepareMock func(mock pgxmock.PgxPoolIface)
		expectErr   error
		anyErr      bool
	}{
		{
			name:     "Commit on success",
			attempts: 3,
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBeginTx(readCommitted)
				mock.ExpectExec("UPDATE users").WithArgs(1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name:     "Rollback on statement error",
			attempts: 3,
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBeginTx(readCommitted)
				mock.ExpectExec("UPDATE users").WithArgs(1).WillReturnError(errors.New("boom"))
				mock.ExpectRollback()
			},
			anyErr: true,
		},
		{
			name:     "Retry after serialization failure",
			attempts: 3,
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBeginTx(readCommitted)
				mock.ExpectExec("UPDATE users").WithArgs(1).WillReturnError(&pgconn.PgError{Code: codeSerializationFailure})
				mock.ExpectRollback()
				mock.ExpectBeginTx(readCommitted)
				mock.ExpectExec("UPDATE users").WithArgs(1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name:     "Conflict after attempts exhausted",
			attempts: 2,
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				for i := 0; i < 2; i++ {
					mock.ExpectBeginTx(readCommitted)
					mock.ExpectExec("UPDATE users").WithArgs(1).WillReturnError(&pgconn.PgError{Code: codeDeadlockDetected})
					mock.ExpectRollback()
				}
			},
			expectErr: domain.ErrConflictRetryable,
		},
		{
			name:     "Begin failure",
			attempts: 1,
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBeginTx(readCommitted).WillReturnError(errors.New("pool closed"))
			},
			anyErr: true,
		},
		{
			name:     "Commit failure",
			attempts: 1,
			prepareMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBeginTx(readCommitted)
				mock.ExpectExec("UPDATE users").WithArgs(1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit().WillReturnError(errors.New("connection lost"))
				mock.ExpectRollback()
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, db, mock := newMockManager(t, tt.attempts)
			tt.prepareMock(mock)

			err := manager.Begin(context.Background(), func(ctx context.Context) error {
				_, err := db.Exec(ctx, "UPDATE users SET balance = 0 WHERE id = $1", 1)
				return err
			})

			switch {
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestManager_BeginJoinsOuterTransaction(t *testing.T) {
	manager, db, mock := newMockManager(t, 1)

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("UPDATE users").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE products").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := manager.Begin(context.Background(), func(ctx context.Context) error {
		if _, err := db.Exec(ctx, "UPDATE users SET balance = 0"); err != nil {
			return err
		}
		return manager.Begin(ctx, func(ctx context.Context) error {
			_, err := db.Exec(ctx, "UPDATE products SET stock = 0")
			return err
		})
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_nik_key"}

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "users_nik_key"))
	assert.False(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(errors.New("other"), ""))
}

func TestIsConflict(t *testing.T) {
	assert.False(t, IsConflict(nil))
	assert.True(t, IsConflict(&pgconn.PgError{Code: codeSerializationFailure}))
	assert.True(t, IsConflict(domain.ErrConflictRetryable))
	assert.False(t, IsConflict(&pgconn.PgError{Code: codeUniqueViolation}))
}
