package orderrepo

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

var createdAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Header saved",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, total_amount, status)`)).
					WithArgs(1, repotest.Dec("130000"), domain.OrderPending).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(7, createdAt))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, total_amount, status)`)).
					WithArgs(1, repotest.Dec("130000"), domain.OrderPending).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			order, err := repo.Create(context.Background(), &domain.Order{
				UserID: 1, TotalAmount: decimal.NewFromInt(130000), Status: domain.OrderPending,
			})
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, order)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 7, order.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_AddLine(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(7, 1, "Beras 5kg", 2, repotest.Dec("65000"), repotest.Dec("130000")).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(11))

	line := domain.OrderLine{
		OrderID: 7, ProductID: 1, ProductName: "Beras 5kg", Quantity: 2,
		UnitPrice: decimal.NewFromInt(65000), Subtotal: decimal.NewFromInt(130000),
	}
	require.NoError(t, repo.AddLine(context.Background(), &line))
	assert.Equal(t, 11, line.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	cols := []string{"id", "user_id", "name", "total_amount", "status", "summary", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE o.user_id = $1 GROUP BY o.id, u.name`)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(7, 1, "Siti", decimal.NewFromInt(130000), domain.OrderPending, "Beras 5kg x2", createdAt))

	orders, err := repo.FindByUserID(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Beras 5kg x2", orders[0].Summary)
	assert.Equal(t, "Siti", orders[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`FROM orders WHERE id = $1 FOR UPDATE`)

	mock.ExpectQuery(query).WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at"}).
			AddRow(7, 1, decimal.NewFromInt(130000), domain.OrderProcessing, createdAt))
	mock.ExpectQuery(query).WithArgs(8).WillReturnError(pgx.ErrNoRows)

	order, err := repo.LockByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderProcessing, order.Status)

	_, err = repo.LockByID(context.Background(), 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2`)).
		WithArgs(domain.OrderCompleted, 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2`)).
		WithArgs(domain.OrderCompleted, 8).
		WillReturnError(errors.New("database error"))

	assert.NoError(t, repo.UpdateStatus(context.Background(), 7, domain.OrderCompleted))
	assert.Error(t, repo.UpdateStatus(context.Background(), 8, domain.OrderCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindLines(t *testing.T) {
	repo, mock := NewMock(t)
	cols := []string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "subtotal"}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items WHERE order_id = $1 ORDER BY id`)).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(11, 7, 1, "Beras 5kg", 2, decimal.NewFromInt(65000), decimal.NewFromInt(130000)).
			AddRow(12, 7, 0, "Gula 1kg", 1, decimal.NewFromInt(17000), decimal.NewFromInt(17000)))

	lines, err := repo.FindLines(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 0, lines[1].ProductID)
	assert.True(t, lines[0].Subtotal.Equal(decimal.NewFromInt(130000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders WHERE status = $1`)).
		WithArgs(domain.OrderPending).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByStatus(context.Background(), domain.OrderPending)

	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
