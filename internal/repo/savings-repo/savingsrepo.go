package savingsrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

const savingsSelect = `
	SELECT s.id, s.user_id, u.name, s.type, s.status, s.amount, s.description, s.external_ref, s.created_at
	FROM savings s
	JOIN users u ON u.id = s.user_id
`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanEntry(row pgx.Row) (*domain.SavingsEntry, error) {
	var e domain.SavingsEntry
	err := row.Scan(&e.ID, &e.UserID, &e.UserName, &e.Type, &e.Status, &e.Amount, &e.Description,
		&e.ExternalRef, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.SavingsEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get savings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.SavingsEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			zap.L().Error("can't scan savings row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *Repository) Create(ctx context.Context, entry *domain.SavingsEntry) (*domain.SavingsEntry, error) {
	query := `
		INSERT INTO savings (user_id, type, status, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, entry.UserID, entry.Type, entry.Status, entry.Amount, entry.Description).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		zap.L().Error("can't save savings entry", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

// CreateExternal inserts an entry keyed by entry.ExternalRef. It reports
// false, without error, when an entry with that reference already exists.
func (r *Repository) CreateExternal(ctx context.Context, entry *domain.SavingsEntry) (bool, error) {
	if entry.ExternalRef == nil || *entry.ExternalRef == "" {
		return false, domain.ValidationError("external reference is required")
	}
	query := `
		INSERT INTO savings (user_id, type, status, amount, description, external_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_ref) DO NOTHING
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, entry.UserID, entry.Type, entry.Status, entry.Amount, entry.Description,
		entry.ExternalRef).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		zap.L().Error("can't save external savings entry", zap.Error(err))
		return false, err
	}
	return true, nil
}

func (r *Repository) LockByID(ctx context.Context, id int) (*domain.SavingsEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, savingsSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("savings entry %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("can't lock savings entry", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status domain.SavingsStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE savings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		zap.L().Error("failed to update savings entry", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("savings entry %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.SavingsEntry, error) {
	return r.list(ctx, savingsSelect+` WHERE s.user_id = $1 ORDER BY s.created_at DESC`, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.SavingsEntry, error) {
	return r.list(ctx, savingsSelect+` ORDER BY s.created_at DESC`)
}

// ListPending returns pending entries, newest first. An empty typ matches
// both deposits and withdrawals; limit 0 means no limit.
func (r *Repository) ListPending(ctx context.Context, typ domain.SavingsType, limit int) ([]domain.SavingsEntry, error) {
	query := savingsSelect + ` WHERE s.status = $1 AND ($2 = '' OR s.type = $2) ORDER BY s.created_at DESC LIMIT NULLIF($3, 0)`
	return r.list(ctx, query, domain.SavingsPending, string(typ), limit)
}
