package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/payment"
	"github.com/GlebRadaev/bumdes/internal/pg"
	"github.com/GlebRadaev/bumdes/pkg/clients"
)

//go:generate mockgen -source=paymentservice.go -destination=mock_paymentservice.go -package=paymentservice

const defaultMemo = "Setoran Simpanan Desa"

// ErrMalformedNotification is returned for a signed settlement whose passthrough
// fields cannot be applied; the gateway is expected to retry it.
var ErrMalformedNotification = errors.New("malformed payment notification")

type SavingsRepo interface {
	CreateExternal(ctx context.Context, entry *domain.SavingsEntry) (bool, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	LockBalance(ctx context.Context, id int) (*domain.User, error)
	Credit(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error)
}

type JournalRepo interface {
	Append(ctx context.Context, entry *domain.JournalEntry) error
}

type Session struct {
	OrderID     string
	Token       string
	RedirectURL string
}

type Service struct {
	savingsRepo SavingsRepo
	userRepo    UserRepo
	journalRepo JournalRepo
	txManager   pg.TXManager
	snap        clients.SnapClientI
	serverKey   string
	now         func() time.Time
}

func New(savingsRepo SavingsRepo, userRepo UserRepo, journalRepo JournalRepo, txManager pg.TXManager,
	snap clients.SnapClientI, serverKey string) *Service {
	return &Service{
		savingsRepo: savingsRepo,
		userRepo:    userRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
		snap:        snap,
		serverKey:   serverKey,
		now:         time.Now,
	}
}

// CreatePayment opens a gateway payment session for a savings top-up. The
// member id and memo travel through the gateway and come back in the webhook.
func (s *Service) CreatePayment(ctx context.Context, userID int, amount int64, memo string) (*Session, error) {
	if amount <= 0 {
		return nil, domain.ValidationError("amount must be positive")
	}
	if memo == "" {
		memo = defaultMemo
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	orderID, err := payment.NewOrderID(s.now())
	if err != nil {
		return nil, err
	}

	resp, err := s.snap.CreateTransaction(ctx, clients.SnapRequest{
		TransactionDetails: clients.TransactionDetails{OrderID: orderID, GrossAmount: amount},
		ItemDetails: []clients.ItemDetail{
			{ID: "SAVINGS", Price: amount, Quantity: 1, Name: memo},
		},
		CustomerDetails: clients.CustomerDetails{FirstName: user.Name, Email: user.Email},
		CustomField1:    strconv.Itoa(userID),
		CustomField2:    memo,
	})
	if err != nil {
		zap.L().Error("can't create payment session", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("payment session created", zap.String("orderID", orderID), zap.Int("userID", userID))
	return &Session{OrderID: orderID, Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// HandleNotification applies a gateway webhook at most once. A nil result
// means the delivery is acknowledged, including ignored and repeated ones.
func (s *Service) HandleNotification(ctx context.Context, n payment.Notification) error {
	if !n.Verify(s.serverKey) {
		zap.L().Warn("webhook signature mismatch", zap.String("orderID", n.OrderID))
		return domain.ErrInvalidSignature
	}
	if !n.Settled() {
		zap.L().Info("webhook ignored", zap.String("orderID", n.OrderID), zap.String("status", n.TransactionStatus))
		return nil
	}
	if !payment.ValidOrderID(n.OrderID) {
		zap.L().Warn("settled order id was not issued by this service", zap.String("orderID", n.OrderID))
	}

	userID, err := strconv.Atoi(n.CustomField1)
	if err != nil || userID <= 0 {
		return fmt.Errorf("%w: custom_field1 %q is not a member id", ErrMalformedNotification, n.CustomField1)
	}
	amount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil || !amount.IsPositive() {
		return fmt.Errorf("%w: gross_amount %q", ErrMalformedNotification, n.GrossAmount)
	}
	memo := n.CustomField2
	if memo == "" {
		memo = defaultMemo
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.LockBalance(ctx, userID)
		if err != nil {
			return fmt.Errorf("member %d: %w", userID, err)
		}

		ref := n.OrderID
		inserted, err := s.savingsRepo.CreateExternal(ctx, &domain.SavingsEntry{
			UserID:      userID,
			Type:        domain.SavingsDeposit,
			Status:      domain.SavingsApproved,
			Amount:      amount,
			Description: fmt.Sprintf("%s (%s)", memo, n.OrderID),
			ExternalRef: &ref,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrDuplicateEvent
		}

		if _, err := s.userRepo.Credit(ctx, userID, amount); err != nil {
			return err
		}
		return s.journalRepo.Append(ctx, &domain.JournalEntry{
			Description: fmt.Sprintf("Savings top-up via gateway: %s - %s", n.OrderID, user.Name),
			Debit:       amount,
			Credit:      decimal.Zero,
			Category:    domain.JournalSavingsTopup,
		})
	})
	if errors.Is(err, domain.ErrDuplicateEvent) {
		zap.L().Info("duplicate webhook delivery", zap.String("orderID", n.OrderID))
		return nil
	}
	if err != nil {
		return err
	}

	zap.L().Info("savings top-up applied", zap.String("orderID", n.OrderID), zap.Int("userID", userID),
		zap.String("amount", amount.String()))
	return nil
}
