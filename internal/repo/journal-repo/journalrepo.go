package journalrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

// journalLockKey is the advisory lock that orders all journal appends.
const journalLockKey int64 = 0x6a75726e616c

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

// Append adds entry at the end of the journal with
// RunningBalance = last RunningBalance + Debit - Credit.
// Called inside a transaction it becomes part of it; the advisory lock is
// held until that transaction ends.
func (r *Repository) Append(ctx context.Context, entry *domain.JournalEntry) error {
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, journalLockKey); err != nil {
			zap.L().Error("can't lock journal", zap.Error(err))
			return err
		}

		var last decimal.Decimal
		err := r.db.QueryRow(ctx, `SELECT running_balance FROM journal_entries ORDER BY id DESC LIMIT 1`).Scan(&last)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			zap.L().Error("can't read last journal entry", zap.Error(err))
			return err
		}

		entry.RunningBalance = last.Add(entry.Debit).Sub(entry.Credit)
		query := `
			INSERT INTO journal_entries (description, debit, credit, running_balance, category)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		err = r.db.QueryRow(ctx, query, entry.Description, entry.Debit, entry.Credit, entry.RunningBalance,
			entry.Category).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			zap.L().Error("can't save journal entry", zap.Error(err))
			return err
		}
		return nil
	})
}

// List returns the newest entries first.
func (r *Repository) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	query := `
		SELECT id, description, debit, credit, running_balance, category, created_at
		FROM journal_entries
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get journal entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.Description, &e.Debit, &e.Credit, &e.RunningBalance, &e.Category, &e.CreatedAt); err != nil {
			zap.L().Error("can't scan journal row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repository) Summary(ctx context.Context) (domain.JournalSummary, error) {
	var s domain.JournalSummary
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0) FROM journal_entries`).
		Scan(&s.TotalDebit, &s.TotalCredit)
	if err != nil {
		zap.L().Error("can't sum journal", zap.Error(err))
		return domain.JournalSummary{}, err
	}
	return s, nil
}
