package adminservice

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

//go:generate mockgen -source=adminservice.go -destination=mock_adminservice.go -package=adminservice

const (
	recentLimit  = 5
	journalLimit = 50
)

type UserRepo interface {
	CountMembers(ctx context.Context) (int, error)
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

type LoanRepo interface {
	CountByStatus(ctx context.Context, status domain.LoanStatus) (int, error)
	ListByStatus(ctx context.Context, status domain.LoanStatus, limit int) ([]domain.Loan, error)
}

type OrderRepo interface {
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error)
}

type SavingsRepo interface {
	ListPending(ctx context.Context, typ domain.SavingsType, limit int) ([]domain.SavingsEntry, error)
}

type JournalRepo interface {
	Summary(ctx context.Context) (domain.JournalSummary, error)
	List(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}

type Service struct {
	userRepo    UserRepo
	loanRepo    LoanRepo
	orderRepo   OrderRepo
	savingsRepo SavingsRepo
	journalRepo JournalRepo
}

func New(userRepo UserRepo, loanRepo LoanRepo, orderRepo OrderRepo, savingsRepo SavingsRepo, journalRepo JournalRepo) *Service {
	return &Service{
		userRepo:    userRepo,
		loanRepo:    loanRepo,
		orderRepo:   orderRepo,
		savingsRepo: savingsRepo,
		journalRepo: journalRepo,
	}
}

// Stats runs the dashboard queries concurrently; the first failure cancels
// the rest.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Members, err = s.userRepo.CountMembers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalBalance, err = s.userRepo.TotalBalance(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingLoans, err = s.loanRepo.CountByStatus(ctx, domain.LoanPending)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingOrders, err = s.orderRepo.CountByStatus(ctx, domain.OrderPending)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentLoans, err = s.loanRepo.ListByStatus(ctx, domain.LoanPending, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentSavings, err = s.savingsRepo.ListPending(ctx, "", recentLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Service) CashReport(ctx context.Context) (*domain.CashReport, error) {
	var report domain.CashReport
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		report.Summary, err = s.journalRepo.Summary(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Entries, err = s.journalRepo.List(ctx, journalLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}
