package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/payment"
	"github.com/GlebRadaev/bumdes/internal/pg"
	"github.com/GlebRadaev/bumdes/pkg/clients"
)

const serverKey = "SB-Mid-server-test"

type mocks struct {
	savings   *MockSavingsRepo
	users     *MockUserRepo
	journal   *MockJournalRepo
	txManager *pg.MockTXManager
	snap      *clients.MockSnapClientI
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		savings:   NewMockSavingsRepo(ctrl),
		users:     NewMockUserRepo(ctrl),
		journal:   NewMockJournalRepo(ctrl),
		txManager: pg.NewMockTXManager(ctrl),
		snap:      clients.NewMockSnapClientI(ctrl),
	}
	service := New(m.savings, m.users, m.journal, m.txManager, m.snap, serverKey)
	service.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return service, m
}

func (m *mocks) runInline() {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
}

func notification(t *testing.T, status string) payment.Notification {
	orderID, err := payment.NewOrderID(time.UnixMilli(1700000000000))
	require.NoError(t, err)
	n := payment.Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       "50000.00",
		TransactionStatus: status,
		CustomField1:      "1",
		CustomField2:      "Setoran Januari",
	}
	n.SignatureKey = payment.Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return n
}

func TestHandleNotification(t *testing.T) {
	member := &domain.User{ID: 1, Name: "Siti"}

	tests := []struct {
		name          string
		notification  func(t *testing.T) payment.Notification
		prepareMock   func(m *mocks)
		expectedError error
	}{
		{
			name: "Settlement credits once",
			notification: func(t *testing.T) payment.Notification {
				return notification(t, payment.StatusSettlement)
			},
			prepareMock: func(m *mocks) {
				m.runInline()
				gomock.InOrder(
					m.users.EXPECT().LockBalance(gomock.Any(), 1).Return(member, nil),
					m.savings.EXPECT().CreateExternal(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, e *domain.SavingsEntry) (bool, error) {
							assert.Equal(t, domain.SavingsDeposit, e.Type)
							assert.Equal(t, domain.SavingsApproved, e.Status)
							require.NotNil(t, e.ExternalRef)
							assert.Contains(t, e.Description, *e.ExternalRef)
							return true, nil
						}),
					m.users.EXPECT().Credit(gomock.Any(), 1, decimal.RequireFromString("50000.00")).
						Return(decimal.RequireFromString("50000"), nil),
					m.journal.EXPECT().Append(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, e *domain.JournalEntry) error {
							assert.Equal(t, domain.JournalSavingsTopup, e.Category)
							assert.Contains(t, e.Description, "Siti")
							return nil
						}),
				)
			},
		},
		{
			name: "Repeated delivery is acknowledged without effect",
			notification: func(t *testing.T) payment.Notification {
				return notification(t, payment.StatusCapture)
			},
			prepareMock: func(m *mocks) {
				m.runInline()
				m.users.EXPECT().LockBalance(gomock.Any(), 1).Return(member, nil)
				m.savings.EXPECT().CreateExternal(gomock.Any(), gomock.Any()).Return(false, nil)
			},
		},
		{
			name: "Bad signature",
			notification: func(t *testing.T) payment.Notification {
				n := notification(t, payment.StatusSettlement)
				n.GrossAmount = "5000000.00"
				return n
			},
			prepareMock:   func(m *mocks) {},
			expectedError: domain.ErrInvalidSignature,
		},
		{
			name: "Pending status is ignored",
			notification: func(t *testing.T) payment.Notification {
				return notification(t, "pending")
			},
			prepareMock: func(m *mocks) {},
		},
		{
			name: "Order id without check digit is still credited",
			notification: func(t *testing.T) payment.Notification {
				n := notification(t, payment.StatusSettlement)
				n.OrderID = "SETOR-1700000000001"
				n.SignatureKey = payment.Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
				return n
			},
			prepareMock: func(m *mocks) {
				m.runInline()
				m.users.EXPECT().LockBalance(gomock.Any(), 1).Return(member, nil)
				m.savings.EXPECT().CreateExternal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *domain.SavingsEntry) (bool, error) {
						require.NotNil(t, e.ExternalRef)
						assert.Equal(t, "SETOR-1700000000001", *e.ExternalRef)
						return true, nil
					})
				m.users.EXPECT().Credit(gomock.Any(), 1, decimal.RequireFromString("50000.00")).
					Return(decimal.RequireFromString("50000"), nil)
				m.journal.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "Missing member id",
			notification: func(t *testing.T) payment.Notification {
				n := notification(t, payment.StatusSettlement)
				n.CustomField1 = ""
				return n
			},
			prepareMock:   func(m *mocks) {},
			expectedError: ErrMalformedNotification,
		},
		{
			name: "Unparsable gross amount",
			notification: func(t *testing.T) payment.Notification {
				n := notification(t, payment.StatusSettlement)
				n.GrossAmount = "lima puluh ribu"
				n.SignatureKey = payment.Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
				return n
			},
			prepareMock:   func(m *mocks) {},
			expectedError: ErrMalformedNotification,
		},
		{
			name: "Unknown member",
			notification: func(t *testing.T) payment.Notification {
				return notification(t, payment.StatusSettlement)
			},
			prepareMock: func(m *mocks) {
				m.runInline()
				m.users.EXPECT().LockBalance(gomock.Any(), 1).Return(nil, domain.ErrNotFound)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "Store failure is surfaced for gateway retry",
			notification: func(t *testing.T) payment.Notification {
				return notification(t, payment.StatusSettlement)
			},
			prepareMock: func(m *mocks) {
				m.runInline()
				m.users.EXPECT().LockBalance(gomock.Any(), 1).Return(member, nil)
				m.savings.EXPECT().CreateExternal(gomock.Any(), gomock.Any()).Return(true, nil)
				m.users.EXPECT().Credit(gomock.Any(), 1, gomock.Any()).Return(decimal.Zero, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			err := service.HandleNotification(context.Background(), tt.notification(t))
			switch {
			case tt.expectedError == nil:
				assert.NoError(t, err)
			case errors.Is(tt.expectedError, ErrMalformedNotification),
				errors.Is(tt.expectedError, domain.ErrNotFound),
				errors.Is(tt.expectedError, domain.ErrInvalidSignature):
				assert.ErrorIs(t, err, tt.expectedError)
				assert.NotErrorIs(t, err, domain.ErrValidation)
			default:
				assert.EqualError(t, err, tt.expectedError.Error())
			}
		})
	}
}

func TestCreatePayment(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		memo          string
		prepareMock   func(m *mocks)
		expectedError error
	}{
		{
			name:   "Session created with passthrough fields",
			amount: 50000,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.User{ID: 1, Name: "Siti", Email: "siti@desa.id"}, nil)
				m.snap.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req clients.SnapRequest) (*clients.SnapResponse, error) {
						assert.True(t, payment.ValidOrderID(req.TransactionDetails.OrderID))
						assert.Equal(t, int64(50000), req.TransactionDetails.GrossAmount)
						assert.Equal(t, "1", req.CustomField1)
						assert.Equal(t, defaultMemo, req.CustomField2)
						assert.Equal(t, "Siti", req.CustomerDetails.FirstName)
						return &clients.SnapResponse{Token: "snap-token"}, nil
					})
			},
		},
		{
			name:   "Gateway failure",
			amount: 50000,
			memo:   "Setoran",
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.User{ID: 1}, nil)
				m.snap.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil, clients.ErrGateway)
			},
			expectedError: clients.ErrGateway,
		},
		{
			name:   "Unknown member",
			amount: 50000,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), 1).Return(nil, fmt.Errorf("user 1: %w", domain.ErrNotFound))
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "Zero amount",
			prepareMock:   func(m *mocks) {},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			session, err := service.CreatePayment(context.Background(), 1, tt.amount, tt.memo)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "snap-token", session.Token)
			assert.True(t, payment.ValidOrderID(session.OrderID))
		})
	}
}
