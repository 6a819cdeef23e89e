package adminservice

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

type mocks struct {
	users   *MockUserRepo
	loans   *MockLoanRepo
	orders  *MockOrderRepo
	savings *MockSavingsRepo
	journal *MockJournalRepo
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		users:   NewMockUserRepo(ctrl),
		loans:   NewMockLoanRepo(ctrl),
		orders:  NewMockOrderRepo(ctrl),
		savings: NewMockSavingsRepo(ctrl),
		journal: NewMockJournalRepo(ctrl),
	}
	return New(m.users, m.loans, m.orders, m.savings, m.journal), m
}

func TestStats(t *testing.T) {
	loans := []domain.Loan{{ID: 5}}
	savings := []domain.SavingsEntry{{ID: 8}}

	tests := []struct {
		name        string
		prepareMock func(m *mocks)
		wantErr     bool
	}{
		{
			name: "All queries succeed",
			prepareMock: func(m *mocks) {
				m.users.EXPECT().CountMembers(gomock.Any()).Return(12, nil)
				m.users.EXPECT().TotalBalance(gomock.Any()).Return(decimal.NewFromInt(750000), nil)
				m.loans.EXPECT().CountByStatus(gomock.Any(), domain.LoanPending).Return(2, nil)
				m.orders.EXPECT().CountByStatus(gomock.Any(), domain.OrderPending).Return(4, nil)
				m.loans.EXPECT().ListByStatus(gomock.Any(), domain.LoanPending, recentLimit).Return(loans, nil)
				m.savings.EXPECT().ListPending(gomock.Any(), domain.SavingsType(""), recentLimit).Return(savings, nil)
			},
		},
		{
			name: "One query fails",
			prepareMock: func(m *mocks) {
				m.users.EXPECT().CountMembers(gomock.Any()).Return(0, errors.New("db error")).AnyTimes()
				m.users.EXPECT().TotalBalance(gomock.Any()).Return(decimal.Zero, nil).AnyTimes()
				m.loans.EXPECT().CountByStatus(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
				m.orders.EXPECT().CountByStatus(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
				m.loans.EXPECT().ListByStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
				m.savings.EXPECT().ListPending(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			stats, err := service.Stats(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 12, stats.Members)
			assert.True(t, stats.TotalBalance.Equal(decimal.NewFromInt(750000)))
			assert.Equal(t, 2, stats.PendingLoans)
			assert.Equal(t, 4, stats.PendingOrders)
			assert.Equal(t, loans, stats.RecentLoans)
			assert.Equal(t, savings, stats.RecentSavings)
		})
	}
}

func TestCashReport(t *testing.T) {
	service, m := NewMock(t)
	summary := domain.JournalSummary{TotalDebit: decimal.NewFromInt(500), TotalCredit: decimal.NewFromInt(200)}
	entries := []domain.JournalEntry{{ID: 2}, {ID: 1}}

	m.journal.EXPECT().Summary(gomock.Any()).Return(summary, nil)
	m.journal.EXPECT().List(gomock.Any(), journalLimit).Return(entries, nil)

	report, err := service.CashReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summary, report.Summary)
	assert.Equal(t, entries, report.Entries)
}
