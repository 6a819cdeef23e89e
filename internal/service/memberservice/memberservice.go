package memberservice

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/notify"
)

//go:generate mockgen -source=memberservice.go -destination=mock_memberservice.go -package=memberservice

const historyLimit = 30

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	ListMembers(ctx context.Context) ([]domain.User, error)
	ListPending(ctx context.Context) ([]domain.User, error)
	UpdateVerification(ctx context.Context, id int, status domain.VerificationStatus) error
	SaveSubscription(ctx context.Context, id int, subscription string) error
	History(ctx context.Context, userID int, limit int) ([]domain.HistoryItem, error)
}

type LoanRepo interface {
	FindActiveByUserID(ctx context.Context, userID int) (*domain.Loan, error)
	FindRepayments(ctx context.Context, loanID int) ([]domain.Repayment, error)
}

type Service struct {
	userRepo UserRepo
	loanRepo LoanRepo
	notifier notify.Notifier
}

func New(userRepo UserRepo, loanRepo LoanRepo, notifier notify.Notifier) *Service {
	return &Service{
		userRepo: userRepo,
		loanRepo: loanRepo,
		notifier: notifier,
	}
}

func (s *Service) ListMembers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListMembers(ctx)
}

func (s *Service) ListPending(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListPending(ctx)
}

func (s *Service) SetVerification(ctx context.Context, userID int, status domain.VerificationStatus) error {
	switch status {
	case domain.VerificationPending, domain.VerificationVerified, domain.VerificationRejected:
	default:
		return domain.ValidationError("unknown verification status")
	}
	if err := s.userRepo.UpdateVerification(ctx, userID, status); err != nil {
		return err
	}

	zap.L().Info("verification status changed", zap.Int("userID", userID), zap.String("status", string(status)))
	body := "Your account status was updated."
	if status == domain.VerificationVerified {
		body = "Your account has been verified. You can log in now."
	}
	s.notifier.Notify(userID, notify.Message{Title: "BUMDes Digital", Body: body, URL: "/login.html"})
	return nil
}

// Detail returns a member with the active loan and its repayments.
func (s *Service) Detail(ctx context.Context, userID int) (*domain.MemberDetail, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	detail := &domain.MemberDetail{User: user, Loan: loan}
	if loan != nil {
		detail.Repayments, err = s.loanRepo.FindRepayments(ctx, loan.ID)
		if err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *Service) Profile(ctx context.Context, userID int) (*domain.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.userRepo.History(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{User: user, Loan: loan, History: history}, nil
}

func (s *Service) History(ctx context.Context, userID int) ([]domain.HistoryItem, error) {
	return s.userRepo.History(ctx, userID, historyLimit)
}

// Subscribe stores the browser push subscription as sent by the client.
func (s *Service) Subscribe(ctx context.Context, userID int, subscription []byte) error {
	var sub struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.Unmarshal(subscription, &sub); err != nil || sub.Endpoint == "" {
		return domain.ValidationError("subscription must be a push subscription object")
	}
	if err := s.userRepo.SaveSubscription(ctx, userID, string(subscription)); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	zap.L().Info("push subscription saved", zap.Int("userID", userID))
	return nil
}
