package productservice

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	return New(repo), repo
}

func TestCreate(t *testing.T) {
	service, repo := NewMock(t)

	tests := []struct {
		name          string
		product       domain.Product
		prepareMock   func()
		expectedError error
		anyError      bool
	}{
		{
			name:    "Valid product",
			product: domain.Product{Name: "Beras 5kg", Price: decimal.NewFromInt(65000), Stock: 10},
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
						p.ID = 1
						return p, nil
					})
			},
		},
		{
			name:          "Missing name",
			product:       domain.Product{Price: decimal.NewFromInt(65000)},
			prepareMock:   func() {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "Negative price",
			product:       domain.Product{Name: "Beras", Price: decimal.NewFromInt(-1)},
			prepareMock:   func() {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "Negative stock",
			product:       domain.Product{Name: "Beras", Price: decimal.NewFromInt(1), Stock: -2},
			prepareMock:   func() {},
			expectedError: domain.ErrValidation,
		},
		{
			name:    "Database error",
			product: domain.Product{Name: "Beras 5kg", Price: decimal.NewFromInt(65000)},
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			anyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			p := tt.product
			created, err := service.Create(context.Background(), &p)
			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.anyError:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 1, created.ID)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	service, repo := NewMock(t)
	p := &domain.Product{ID: 3, Name: "Gula 1kg", Price: decimal.NewFromInt(17000), Stock: 4}

	repo.EXPECT().Update(gomock.Any(), p).Return(p, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil, domain.ErrNotFound)

	updated, err := service.Update(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, p, updated)

	_, err = service.Update(context.Background(), &domain.Product{ID: 9, Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	service, repo := NewMock(t)

	repo.EXPECT().Delete(gomock.Any(), 3).Return(nil)
	repo.EXPECT().Delete(gomock.Any(), 9).Return(domain.ErrNotFound)

	assert.NoError(t, service.Delete(context.Background(), 3))
	assert.ErrorIs(t, service.Delete(context.Background(), 9), domain.ErrNotFound)
}

func TestList(t *testing.T) {
	service, repo := NewMock(t)
	products := []domain.Product{{ID: 1, Name: "Beras 5kg"}}

	repo.EXPECT().List(gomock.Any()).Return(products, nil)

	got, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, products, got)
}
