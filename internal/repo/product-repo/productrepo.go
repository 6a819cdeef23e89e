package productrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

const productColumns = `id, name, description, category, price, stock, photo, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.Photo, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			zap.L().Error("can't scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("can't find product", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, category, price, stock, photo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, p.Name, p.Description, p.Category, p.Price, p.Stock, p.Photo).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		zap.L().Error("can't save product", zap.Error(err))
		return nil, err
	}
	return p, nil
}

// Update keeps the stored photo when p.Photo is empty.
func (r *Repository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, stock = $5,
			photo = COALESCE(NULLIF($6, ''), photo)
		WHERE id = $7
		RETURNING ` + productColumns
	updated, err := scanProduct(r.db.QueryRow(ctx, query, p.Name, p.Description, p.Category, p.Price, p.Stock, p.Photo, p.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
		}
		zap.L().Error("can't update product", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("can't delete product", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DecrementStock takes quantity units of the product only when enough stock
// is left, and returns the product as it is after the decrement.
func (r *Repository) DecrementStock(ctx context.Context, id int, quantity int) (*domain.Product, error) {
	query := `
		UPDATE products SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRow(ctx, query, quantity, id))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		zap.L().Error("can't decrement stock", zap.Error(err))
		return nil, err
	}

	var name string
	err = r.db.QueryRow(ctx, `SELECT name FROM products WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		zap.L().Error("can't read product name", zap.Error(err))
		return nil, err
	}
	return nil, &domain.OutOfStockError{ProductID: id, ProductName: name}
}
