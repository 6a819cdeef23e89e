package savingsservice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/notify"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

//go:generate mockgen -source=savingsservice.go -destination=mock_savingsservice.go -package=savingsservice

type Repo interface {
	Create(ctx context.Context, entry *domain.SavingsEntry) (*domain.SavingsEntry, error)
	LockByID(ctx context.Context, id int) (*domain.SavingsEntry, error)
	UpdateStatus(ctx context.Context, id int, status domain.SavingsStatus) error
	FindByUserID(ctx context.Context, userID int) ([]domain.SavingsEntry, error)
	ListAll(ctx context.Context) ([]domain.SavingsEntry, error)
	ListPending(ctx context.Context, typ domain.SavingsType, limit int) ([]domain.SavingsEntry, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	LockBalance(ctx context.Context, id int) (*domain.User, error)
	Debit(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error)
}

type JournalRepo interface {
	Append(ctx context.Context, entry *domain.JournalEntry) error
}

type Service struct {
	savingsRepo Repo
	userRepo    UserRepo
	journalRepo JournalRepo
	txManager   pg.TXManager
	notifier    notify.Notifier
}

func New(savingsRepo Repo, userRepo UserRepo, journalRepo JournalRepo, txManager pg.TXManager, notifier notify.Notifier) *Service {
	return &Service{
		savingsRepo: savingsRepo,
		userRepo:    userRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

func (s *Service) GetSavings(ctx context.Context, userID int) ([]domain.SavingsEntry, error) {
	return s.savingsRepo.FindByUserID(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.SavingsEntry, error) {
	return s.savingsRepo.ListAll(ctx)
}

func (s *Service) ListPendingWithdrawals(ctx context.Context) ([]domain.SavingsEntry, error) {
	return s.savingsRepo.ListPending(ctx, domain.SavingsWithdrawal, 0)
}

// RequestWithdrawal queues a cash withdrawal for admin approval. The balance
// check here is advisory; funds are only taken on approval.
func (s *Service) RequestWithdrawal(ctx context.Context, userID int, amount decimal.Decimal, description string) (*domain.SavingsEntry, error) {
	if !amount.IsPositive() {
		return nil, domain.ValidationError("amount must be positive")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Balance.LessThan(amount) {
		zap.L().Info("withdrawal request exceeds balance", zap.Int("userID", userID))
		return nil, domain.ErrInsufficientFunds
	}

	entry, err := s.savingsRepo.Create(ctx, &domain.SavingsEntry{
		UserID:      userID,
		Type:        domain.SavingsWithdrawal,
		Status:      domain.SavingsPending,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("withdrawal requested", zap.Int("savingsID", entry.ID), zap.Int("userID", userID))
	return entry, nil
}

// ProcessWithdrawal decides a pending withdrawal. Approval re-checks the
// balance under lock, so a balance spent since the request fails with
// ErrInsufficientFunds and leaves the entry pending.
func (s *Service) ProcessWithdrawal(ctx context.Context, id int, decision domain.SavingsStatus) (*domain.SavingsEntry, error) {
	if decision != domain.SavingsApproved && decision != domain.SavingsRejected {
		return nil, domain.ValidationError("decision must be approved or rejected")
	}

	var entry *domain.SavingsEntry
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.savingsRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if entry.Type != domain.SavingsWithdrawal {
			return domain.ValidationError("entry is not a withdrawal")
		}
		if entry.Status != domain.SavingsPending {
			return fmt.Errorf("withdrawal %d is %s: %w", id, entry.Status, domain.ErrInvalidTransition)
		}

		if decision == domain.SavingsApproved {
			user, err := s.userRepo.LockBalance(ctx, entry.UserID)
			if err != nil {
				return err
			}
			if user.Balance.LessThan(entry.Amount) {
				return domain.ErrInsufficientFunds
			}
			if _, err := s.userRepo.Debit(ctx, entry.UserID, entry.Amount); err != nil {
				return err
			}
			err = s.journalRepo.Append(ctx, &domain.JournalEntry{
				Description: fmt.Sprintf("Cash withdrawal: %s (savings %d)", user.Name, entry.ID),
				Debit:       decimal.Zero,
				Credit:      entry.Amount,
				Category:    domain.JournalCashWithdrawal,
			})
			if err != nil {
				return err
			}
		}

		if err := s.savingsRepo.UpdateStatus(ctx, id, decision); err != nil {
			return err
		}
		entry.Status = decision
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("withdrawal processed", zap.Int("savingsID", id), zap.String("status", string(decision)))
	s.notifier.Notify(entry.UserID, withdrawalMessage(entry))
	return entry, nil
}

func withdrawalMessage(entry *domain.SavingsEntry) notify.Message {
	amount := entry.Amount.StringFixed(0)
	if entry.Status == domain.SavingsApproved {
		return notify.Message{
			Title: "BUMDes Digital: Withdrawal approved",
			Body:  fmt.Sprintf("Your cash withdrawal of Rp %s was approved. Collect it at the BUMDes office.", amount),
			URL:   "/savings",
		}
	}
	return notify.Message{
		Title: "BUMDes Digital: Withdrawal rejected",
		Body:  fmt.Sprintf("Your cash withdrawal of Rp %s was rejected.", amount),
		URL:   "/savings",
	}
}
