package userrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

const userColumns = `id, nik, name, email, password_hash, address, phone, id_card_photo, role, verification_status, balance, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.NIK, &u.Name, &u.Email, &u.PasswordHash, &u.Address, &u.Phone,
		&u.IDCardPhoto, &u.Role, &u.VerificationStatus, &u.Balance, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) FindByIdentity(ctx context.Context, identity string, role domain.Role) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE (nik = $1 OR email = $1) AND role = $2`
	user, err := scanUser(r.db.QueryRow(ctx, query, identity, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (nik, name, email, password_hash, address, phone, id_card_photo, role, verification_status, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, user.NIK, user.Name, user.Email, user.PasswordHash, user.Address,
		user.Phone, user.IDCardPhoto, user.Role, user.VerificationStatus).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err, "") {
			return nil, fmt.Errorf("nik or email: %w", domain.ErrAlreadyExists)
		}
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	user.Balance = decimal.Zero
	return user, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("can't scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *Repository) ListMembers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, domain.RoleMember)
}

func (r *Repository) ListPending(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND verification_status = $2 ORDER BY created_at ASC`
	return r.list(ctx, query, domain.RoleMember, domain.VerificationPending)
}

func (r *Repository) UpdateVerification(ctx context.Context, id int, status domain.VerificationStatus) error {
	query := `UPDATE users SET verification_status = $1 WHERE id = $2 AND role = $3`
	tag, err := r.db.Exec(ctx, query, status, id, domain.RoleMember)
	if err != nil {
		zap.L().Error("can't update verification status", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// LockBalance reads the user row and holds its lock until the surrounding
// transaction ends.
func (r *Repository) LockBalance(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("can't lock user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Debit subtracts amount only when the balance covers it.
func (r *Repository) Debit(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1 RETURNING balance`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, amount, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrInsufficientFunds
		}
		zap.L().Error("can't debit user balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *Repository) Credit(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, amount, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("can't credit user balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *Repository) SaveSubscription(ctx context.Context, id int, subscription string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET push_subscription = $1 WHERE id = $2`, subscription, id)
	if err != nil {
		zap.L().Error("can't save push subscription", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetSubscription returns an empty string when the user never subscribed.
func (r *Repository) GetSubscription(ctx context.Context, id int) (string, error) {
	var subscription *string
	err := r.db.QueryRow(ctx, `SELECT push_subscription FROM users WHERE id = $1`, id).Scan(&subscription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		zap.L().Error("can't get push subscription", zap.Error(err))
		return "", err
	}
	if subscription == nil {
		return "", nil
	}
	return *subscription, nil
}

func (r *Repository) History(ctx context.Context, userID int, limit int) ([]domain.HistoryItem, error) {
	query := `
		SELECT kind, amount, direction, at FROM (
			SELECT 'loan_disbursed' AS kind, principal AS amount, 'in' AS direction, applied_at AS at
			FROM loans WHERE user_id = $1 AND status IN ('approved', 'paid_off')
			UNION ALL
			SELECT 'installment', amount, 'out', paid_at FROM repayments WHERE user_id = $1
			UNION ALL
			SELECT 'purchase', total_amount, 'out', created_at FROM orders WHERE user_id = $1
			UNION ALL
			SELECT CASE WHEN type = 'deposit' THEN 'savings_deposit' ELSE 'savings_withdrawal' END,
				amount,
				CASE WHEN type = 'deposit' THEN 'in' ELSE 'out' END,
				created_at
			FROM savings WHERE user_id = $1 AND status = 'approved'
		) h
		ORDER BY at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		zap.L().Error("can't get history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.HistoryItem
	for rows.Next() {
		var item domain.HistoryItem
		if err := rows.Scan(&item.Kind, &item.Amount, &item.Direction, &item.At); err != nil {
			zap.L().Error("can't scan history row", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) CountMembers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, domain.RoleMember).Scan(&count)
	if err != nil {
		zap.L().Error("can't count members", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *Repository) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM users WHERE role = $1`, domain.RoleMember).Scan(&total)
	if err != nil {
		zap.L().Error("can't sum balances", zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}
