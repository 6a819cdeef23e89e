package loanservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/notify"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

//go:generate mockgen -source=loanservice.go -destination=mock_loanservice.go -package=loanservice

const maxTermMonths = 60

// noLimit asks ListByStatus for every matching loan.
const noLimit = 0

type Repo interface {
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	LockByID(ctx context.Context, id int) (*domain.Loan, error)
	UpdateStatus(ctx context.Context, id int, status domain.LoanStatus, note string) error
	FindByUserID(ctx context.Context, userID int) ([]domain.Loan, error)
	ListAll(ctx context.Context) ([]domain.Loan, error)
	ListByStatus(ctx context.Context, status domain.LoanStatus, limit int) ([]domain.Loan, error)
	CountRepayments(ctx context.Context, loanID int) (int, error)
	AddRepayment(ctx context.Context, rep *domain.Repayment) error
}

type UserRepo interface {
	LockBalance(ctx context.Context, id int) (*domain.User, error)
	Debit(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error)
}

type JournalRepo interface {
	Append(ctx context.Context, entry *domain.JournalEntry) error
}

type Application struct {
	Principal         decimal.Decimal
	TermMonths        int
	InstallmentAmount decimal.Decimal
	Purpose           string
}

type Service struct {
	loanRepo    Repo
	userRepo    UserRepo
	journalRepo JournalRepo
	txManager   pg.TXManager
	notifier    notify.Notifier
}

func New(loanRepo Repo, userRepo UserRepo, journalRepo JournalRepo, txManager pg.TXManager, notifier notify.Notifier) *Service {
	return &Service{
		loanRepo:    loanRepo,
		userRepo:    userRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

func (s *Service) Apply(ctx context.Context, userID int, app Application) (*domain.Loan, error) {
	switch {
	case !app.Principal.IsPositive():
		return nil, domain.ValidationError("principal must be positive")
	case app.TermMonths < 1 || app.TermMonths > maxTermMonths:
		return nil, domain.ValidationError(fmt.Sprintf("term must be between 1 and %d months", maxTermMonths))
	case !app.InstallmentAmount.IsPositive():
		return nil, domain.ValidationError("installment must be positive")
	}

	loan, err := s.loanRepo.Create(ctx, &domain.Loan{
		UserID:            userID,
		Principal:         app.Principal,
		TermMonths:        app.TermMonths,
		InstallmentAmount: app.InstallmentAmount,
		Purpose:           app.Purpose,
		Status:            domain.LoanPending,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("loan application received", zap.Int("loanID", loan.ID), zap.Int("userID", userID))
	return loan, nil
}

func (s *Service) GetLoans(ctx context.Context, userID int) ([]domain.Loan, error) {
	return s.loanRepo.FindByUserID(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Loan, error) {
	return s.loanRepo.ListAll(ctx)
}

// ListPending returns every loan waiting for a decision.
func (s *Service) ListPending(ctx context.Context) ([]domain.Loan, error) {
	return s.loanRepo.ListByStatus(ctx, domain.LoanPending, noLimit)
}

// Decide approves or rejects a pending loan. Approval credits the principal
// to the borrower and records the cash leaving the cooperative. Only the
// first decision wins; later ones get ErrInvalidTransition.
func (s *Service) Decide(ctx context.Context, loanID int, decision domain.LoanStatus, note string) (*domain.Loan, error) {
	if decision != domain.LoanApproved && decision != domain.LoanRejected {
		return nil, domain.ValidationError("decision must be approved or rejected")
	}

	var loan *domain.Loan
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		loan, err = s.loanRepo.LockByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanPending {
			return fmt.Errorf("loan %d is %s: %w", loanID, loan.Status, domain.ErrInvalidTransition)
		}
		if err := s.loanRepo.UpdateStatus(ctx, loanID, decision, note); err != nil {
			return err
		}
		loan.Status = decision
		if note != "" {
			loan.AdminNote = note
		}
		if decision != domain.LoanApproved {
			return nil
		}

		if _, err := s.userRepo.LockBalance(ctx, loan.UserID); err != nil {
			return err
		}
		if _, err := s.userRepo.Credit(ctx, loan.UserID, loan.Principal); err != nil {
			return err
		}
		return s.journalRepo.Append(ctx, &domain.JournalEntry{
			Description: fmt.Sprintf("Loan disbursement: %s (loan %d)", loan.UserName, loan.ID),
			Debit:       decimal.Zero,
			Credit:      loan.Principal,
			Category:    domain.JournalLoanDisbursement,
		})
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("loan decided", zap.Int("loanID", loanID), zap.String("status", string(decision)))
	s.notifier.Notify(loan.UserID, decisionMessage(loan))
	return loan, nil
}

func decisionMessage(loan *domain.Loan) notify.Message {
	if loan.Status == domain.LoanApproved {
		return notify.Message{
			Title: "BUMDes Digital: Loan approved",
			Body:  fmt.Sprintf("Your loan of Rp %s has been approved and added to your balance.", loan.Principal.StringFixed(0)),
			URL:   "/loans",
		}
	}
	body := "Your loan application was rejected."
	if loan.AdminNote != "" {
		body += " Note: " + loan.AdminNote
	}
	return notify.Message{Title: "BUMDes Digital: Loan rejected", Body: body, URL: "/loans"}
}

// Repay pays the next installment of an active loan from the member balance.
// The loan becomes paid_off once the installment index reaches the term.
func (s *Service) Repay(ctx context.Context, userID, loanID int, amount decimal.Decimal) (*domain.Repayment, error) {
	if !amount.IsPositive() {
		return nil, domain.ValidationError("amount must be positive")
	}

	var repayment *domain.Repayment
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.LockByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.UserID != userID {
			return fmt.Errorf("loan %d: %w", loanID, domain.ErrNotFound)
		}
		if loan.Status != domain.LoanApproved {
			return fmt.Errorf("loan %d is %s: %w", loanID, loan.Status, domain.ErrLoanNotActive)
		}

		paid, err := s.loanRepo.CountRepayments(ctx, loanID)
		if err != nil {
			return err
		}
		index := paid + 1

		user, err := s.userRepo.LockBalance(ctx, userID)
		if err != nil {
			return err
		}
		if user.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		if _, err := s.userRepo.Debit(ctx, userID, amount); err != nil {
			return err
		}

		repayment = &domain.Repayment{
			LoanID:           loanID,
			UserID:           userID,
			InstallmentIndex: index,
			Amount:           amount,
		}
		if err := s.loanRepo.AddRepayment(ctx, repayment); err != nil {
			return err
		}
		if index >= loan.TermMonths {
			if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanPaidOff, ""); err != nil {
				return err
			}
		}

		return s.journalRepo.Append(ctx, &domain.JournalEntry{
			Description: fmt.Sprintf("Installment #%d: %s (loan %d)", index, user.Name, loanID),
			Debit:       amount,
			Credit:      decimal.Zero,
			Category:    domain.JournalInstallment,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrLoanNotActive) {
			zap.L().Info("repayment rejected", zap.Int("loanID", loanID), zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("installment paid", zap.Int("loanID", loanID), zap.Int("installment", repayment.InstallmentIndex))
	return repayment, nil
}
