package savingsrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/repo/repotest"
)

var columns = []string{"id", "user_id", "name", "type", "status", "amount", "description", "external_ref", "created_at"}

var createdAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func entryRow(rows *pgxmock.Rows, id int, typ domain.SavingsType, status domain.SavingsStatus, ref *string) *pgxmock.Rows {
	return rows.AddRow(id, 1, "Siti", typ, status, decimal.NewFromInt(200000), "", ref, createdAt)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO savings (user_id, type, status, amount, description)`)).
		WithArgs(1, domain.SavingsWithdrawal, domain.SavingsPending, repotest.Dec("200000"), "Penarikan tunai").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(6, createdAt))

	entry, err := repo.Create(context.Background(), &domain.SavingsEntry{
		UserID: 1, Type: domain.SavingsWithdrawal, Status: domain.SavingsPending,
		Amount: decimal.NewFromInt(200000), Description: "Penarikan tunai",
	})

	require.NoError(t, err)
	assert.Equal(t, 6, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateExternal(t *testing.T) {
	repo, mock := NewMock(t)
	insert := regexp.QuoteMeta(`ON CONFLICT (external_ref) DO NOTHING RETURNING id, created_at`)
	ref := "SETOR-17000000000001"

	tests := []struct {
		name      string
		ref       *string
		mockSetup func()
		expectNew bool
		expectErr error
		anyErr    bool
	}{
		{
			name: "First delivery inserts",
			ref:  &ref,
			mockSetup: func() {
				mock.ExpectQuery(insert).
					WithArgs(1, domain.SavingsDeposit, domain.SavingsApproved, repotest.Dec("200000"), "Top up", &ref).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(6, createdAt))
			},
			expectNew: true,
		},
		{
			name: "Repeated delivery is skipped",
			ref:  &ref,
			mockSetup: func() {
				mock.ExpectQuery(insert).
					WithArgs(1, domain.SavingsDeposit, domain.SavingsApproved, repotest.Dec("200000"), "Top up", &ref).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:      "Missing reference",
			mockSetup: func() {},
			expectErr: domain.ErrValidation,
		},
		{
			name: "Database error",
			ref:  &ref,
			mockSetup: func() {
				mock.ExpectQuery(insert).
					WithArgs(1, domain.SavingsDeposit, domain.SavingsApproved, repotest.Dec("200000"), "Top up", &ref).
					WillReturnError(errors.New("database error"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			inserted, err := repo.CreateExternal(context.Background(), &domain.SavingsEntry{
				UserID: 1, Type: domain.SavingsDeposit, Status: domain.SavingsApproved,
				Amount: decimal.NewFromInt(200000), Description: "Top up", ExternalRef: tt.ref,
			})
			switch {
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectNew, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_LockByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`WHERE s.id = $1 FOR UPDATE OF s`)

	mock.ExpectQuery(query).WithArgs(6).
		WillReturnRows(entryRow(pgxmock.NewRows(columns), 6, domain.SavingsWithdrawal, domain.SavingsPending, nil))
	mock.ExpectQuery(query).WithArgs(7).WillReturnError(pgx.ErrNoRows)

	entry, err := repo.LockByID(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, domain.SavingsWithdrawal, entry.Type)
	assert.Nil(t, entry.ExternalRef)

	_, err = repo.LockByID(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE savings SET status = $1 WHERE id = $2`)).
		WithArgs(domain.SavingsApproved, 6).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE savings SET status = $1 WHERE id = $2`)).
		WithArgs(domain.SavingsApproved, 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.UpdateStatus(context.Background(), 6, domain.SavingsApproved))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 7, domain.SavingsApproved), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListPending(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`WHERE s.status = $1 AND ($2 = '' OR s.type = $2) ORDER BY s.created_at DESC LIMIT NULLIF($3, 0)`)

	rows := pgxmock.NewRows(columns)
	entryRow(rows, 6, domain.SavingsWithdrawal, domain.SavingsPending, nil)
	mock.ExpectQuery(query).WithArgs(domain.SavingsPending, "withdrawal", 0).WillReturnRows(rows)
	mock.ExpectQuery(query).WithArgs(domain.SavingsPending, "", 5).WillReturnError(errors.New("database error"))

	entries, err := repo.ListPending(context.Background(), domain.SavingsWithdrawal, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = repo.ListPending(context.Background(), "", 5)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	ref := "SETOR-17000000000001"

	rows := pgxmock.NewRows(columns)
	entryRow(rows, 6, domain.SavingsDeposit, domain.SavingsApproved, &ref)
	entryRow(rows, 5, domain.SavingsWithdrawal, domain.SavingsRejected, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.user_id = $1 ORDER BY s.created_at DESC`)).
		WithArgs(1).
		WillReturnRows(rows)

	entries, err := repo.FindByUserID(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].ExternalRef)
	assert.Equal(t, ref, *entries[0].ExternalRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}
