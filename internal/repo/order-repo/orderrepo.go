package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// Create stores the order header. Lines are added separately with AddLine
// inside the same transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
		INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, order.UserID, order.TotalAmount, order.Status).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) AddLine(ctx context.Context, line *domain.OrderLine) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, line.OrderID, line.ProductID, line.ProductName, line.Quantity,
		line.UnitPrice, line.Subtotal).Scan(&line.ID)
	if err != nil {
		zap.L().Error("can't save order line", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.UserName, &order.TotalAmount, &order.Status,
			&order.Summary, &order.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, u.name, o.total_amount, o.status,
			COALESCE(string_agg(oi.product_name || ' x' || oi.quantity, ', ' ORDER BY oi.id), ''),
			o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1
		GROUP BY o.id, u.name
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, u.name, o.total_amount, o.status,
			COALESCE(string_agg(oi.product_name || ' x' || oi.quantity, ', ' ORDER BY oi.id), ''),
			o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		GROUP BY o.id, u.name
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query)
}

func (r *Repository) LockByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `SELECT id, user_id, total_amount, status, created_at FROM orders WHERE id = $1 FOR UPDATE`
	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("can't lock order", zap.Error(err))
		return nil, err
	}
	return &order, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		zap.L().Error("failed to update order", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) FindLines(ctx context.Context, orderID int) ([]domain.OrderLine, error) {
	query := `
		SELECT id, order_id, COALESCE(product_id, 0), product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("can't get order lines", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity,
			&line.UnitPrice, &line.Subtotal)
		if err != nil {
			zap.L().Error("can't scan order line", zap.Error(err))
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *Repository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&count)
	if err != nil {
		zap.L().Error("can't count orders", zap.Error(err))
		return 0, err
	}
	return count, nil
}
