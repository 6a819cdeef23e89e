package orderservice

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

//go:generate mockgen -source=orderservice.go -destination=mock_orderservice.go -package=orderservice

type Repo interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	AddLine(ctx context.Context, line *domain.OrderLine) error
	FindByUserID(ctx context.Context, userID int) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	LockByID(ctx context.Context, id int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) error
	FindLines(ctx context.Context, orderID int) ([]domain.OrderLine, error)
}

type ProductRepo interface {
	DecrementStock(ctx context.Context, id int, quantity int) (*domain.Product, error)
}

type UserRepo interface {
	LockBalance(ctx context.Context, id int) (*domain.User, error)
	Debit(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error)
}

type JournalRepo interface {
	Append(ctx context.Context, entry *domain.JournalEntry) error
}

type Service struct {
	orderRepo   Repo
	productRepo ProductRepo
	userRepo    UserRepo
	journalRepo JournalRepo
	txManager   pg.TXManager
}

func New(orderRepo Repo, productRepo ProductRepo, userRepo UserRepo, journalRepo JournalRepo, txManager pg.TXManager) *Service {
	return &Service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
	}
}

// normalizeCart merges repeated products and orders lines by product id so
// concurrent checkouts lock product rows in the same order.
func normalizeCart(items []domain.CartItem) ([]domain.CartItem, error) {
	if len(items) == 0 {
		return nil, domain.ValidationError("cart is empty")
	}
	merged := make(map[int]int, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, domain.ValidationError("product id is required")
		}
		if item.Quantity <= 0 {
			return nil, domain.ValidationError("quantity must be positive")
		}
		merged[item.ProductID] += item.Quantity
	}
	cart := make([]domain.CartItem, 0, len(merged))
	for id, qty := range merged {
		cart = append(cart, domain.CartItem{ProductID: id, Quantity: qty})
	}
	sort.Slice(cart, func(i, j int) bool { return cart[i].ProductID < cart[j].ProductID })
	return cart, nil
}

// Checkout places an order and pays for it from the member balance. Stock,
// balance, order and journal either all change or none do.
func (s *Service) Checkout(ctx context.Context, userID int, items []domain.CartItem, total decimal.Decimal) (*domain.Order, error) {
	cart, err := normalizeCart(items)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, domain.ValidationError("total must be positive")
	}

	var order *domain.Order
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.LockBalance(ctx, userID)
		if err != nil {
			return err
		}
		if user.Balance.LessThan(total) {
			return domain.ErrInsufficientFunds
		}

		order, err = s.orderRepo.Create(ctx, &domain.Order{
			UserID:      userID,
			TotalAmount: total,
			Status:      domain.OrderPending,
		})
		if err != nil {
			return err
		}

		computed := decimal.Zero
		for _, item := range cart {
			product, err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			line := &domain.OrderLine{
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
				Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}
			if err := s.orderRepo.AddLine(ctx, line); err != nil {
				return err
			}
			computed = computed.Add(line.Subtotal)
			order.Lines = append(order.Lines, *line)
		}
		if !computed.Equal(total) {
			return domain.ValidationError(fmt.Sprintf("total mismatch: expected %s", computed.StringFixed(2)))
		}

		if _, err := s.userRepo.Debit(ctx, userID, total); err != nil {
			return err
		}
		return s.journalRepo.Append(ctx, &domain.JournalEntry{
			Description: fmt.Sprintf("Store purchase: %s (order %d)", user.Name, order.ID),
			Debit:       total,
			Credit:      decimal.Zero,
			Category:    domain.JournalPurchase,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrOutOfStock) {
			zap.L().Info("checkout rejected", zap.Int("userID", userID), zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("order placed", zap.Int("orderID", order.ID), zap.Int("userID", userID),
		zap.String("total", total.String()))
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

func (s *Service) GetLines(ctx context.Context, orderID int) ([]domain.OrderLine, error) {
	return s.orderRepo.FindLines(ctx, orderID)
}

func (s *Service) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) error {
	switch status {
	case domain.OrderPending, domain.OrderProcessing, domain.OrderCompleted, domain.OrderCancelled:
	default:
		return domain.ValidationError("unknown order status")
	}

	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanMoveTo(status) {
			return fmt.Errorf("order %d is %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
		}
		if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}
		zap.L().Info("order status changed", zap.Int("orderID", orderID), zap.String("status", string(status)))
		return nil
	})
}
