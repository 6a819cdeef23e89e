package pg

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_UsesPoolOutsideTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := New(mock)
	mock.ExpectQuery("SELECT stock FROM products").
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(12))

	var stock int
	err = db.QueryRow(context.Background(), "SELECT stock FROM products WHERE id = $1", 7).Scan(&stock)

	assert.NoError(t, err)
	assert.Equal(t, 12, stock)
	assert.Nil(t, txFromContext(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_QueryInsideTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := New(mock)
	manager := NewTXManager(mock, 1)

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectQuery("SELECT id FROM loans").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	var ids []int
	err = manager.Begin(context.Background(), func(ctx context.Context) error {
		assert.NotNil(t, txFromContext(ctx))
		rows, err := db.Query(ctx, "SELECT id FROM loans")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id int
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
