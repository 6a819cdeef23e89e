package loanrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/pg"
)

const repaymentIndexKey = "repayments_loan_installment_key"

const loanSelect = `
	SELECT l.id, l.user_id, u.name, l.principal, l.term_months, l.installment_amount,
		l.purpose, l.status, l.admin_note, l.applied_at
	FROM loans l
	JOIN users u ON u.id = l.user_id
`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(&l.ID, &l.UserID, &l.UserName, &l.Principal, &l.TermMonths, &l.InstallmentAmount,
		&l.Purpose, &l.Status, &l.AdminNote, &l.AppliedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			zap.L().Error("can't scan loan row", zap.Error(err))
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

func (r *Repository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	query := `
		INSERT INTO loans (user_id, principal, term_months, installment_amount, purpose, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, applied_at
	`
	err := r.db.QueryRow(ctx, query, loan.UserID, loan.Principal, loan.TermMonths, loan.InstallmentAmount,
		loan.Purpose, loan.Status).Scan(&loan.ID, &loan.AppliedAt)
	if err != nil {
		zap.L().Error("can't save loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

// LockByID reads the loan and holds its row lock until the transaction ends.
func (r *Repository) LockByID(ctx context.Context, id int) (*domain.Loan, error) {
	query := loanSelect + ` WHERE l.id = $1 FOR UPDATE OF l`
	loan, err := scanLoan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loan %d: %w", id, domain.ErrNotFound)
		}
		zap.L().Error("can't lock loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status domain.LoanStatus, note string) error {
	query := `UPDATE loans SET status = $1, admin_note = COALESCE(NULLIF($2, ''), admin_note) WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, status, note, id)
	if err != nil {
		zap.L().Error("failed to update loan", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Loan, error) {
	return r.list(ctx, loanSelect+` WHERE l.user_id = $1 ORDER BY l.applied_at DESC`, userID)
}

// FindActiveByUserID returns the newest approved loan of the user, or nil.
func (r *Repository) FindActiveByUserID(ctx context.Context, userID int) (*domain.Loan, error) {
	query := loanSelect + ` WHERE l.user_id = $1 AND l.status = $2 ORDER BY l.applied_at DESC LIMIT 1`
	loan, err := scanLoan(r.db.QueryRow(ctx, query, userID, domain.LoanApproved))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find active loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Loan, error) {
	return r.list(ctx, loanSelect+` ORDER BY l.applied_at DESC`)
}

// ListByStatus returns the newest loans in status; limit 0 means all of them.
func (r *Repository) ListByStatus(ctx context.Context, status domain.LoanStatus, limit int) ([]domain.Loan, error) {
	return r.list(ctx, loanSelect+` WHERE l.status = $1 ORDER BY l.applied_at DESC LIMIT NULLIF($2, 0)`, status, limit)
}

func (r *Repository) CountByStatus(ctx context.Context, status domain.LoanStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM loans WHERE status = $1`, status).Scan(&count)
	if err != nil {
		zap.L().Error("can't count loans", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *Repository) CountRepayments(ctx context.Context, loanID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM repayments WHERE loan_id = $1`, loanID).Scan(&count)
	if err != nil {
		zap.L().Error("can't count repayments", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// AddRepayment fails with domain.ErrConflictRetryable when another
// transaction already recorded the same installment index.
func (r *Repository) AddRepayment(ctx context.Context, rep *domain.Repayment) error {
	query := `
		INSERT INTO repayments (loan_id, user_id, installment_index, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, paid_at
	`
	err := r.db.QueryRow(ctx, query, rep.LoanID, rep.UserID, rep.InstallmentIndex, rep.Amount).
		Scan(&rep.ID, &rep.PaidAt)
	if err != nil {
		if pg.IsUniqueViolation(err, repaymentIndexKey) {
			return fmt.Errorf("installment %d of loan %d: %w", rep.InstallmentIndex, rep.LoanID, domain.ErrConflictRetryable)
		}
		zap.L().Error("can't save repayment", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindRepayments(ctx context.Context, loanID int) ([]domain.Repayment, error) {
	query := `
		SELECT id, loan_id, user_id, installment_index, amount, paid_at
		FROM repayments
		WHERE loan_id = $1
		ORDER BY installment_index
	`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		zap.L().Error("can't get repayments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var repayments []domain.Repayment
	for rows.Next() {
		var rep domain.Repayment
		if err := rows.Scan(&rep.ID, &rep.LoanID, &rep.UserID, &rep.InstallmentIndex, &rep.Amount, &rep.PaidAt); err != nil {
			zap.L().Error("can't scan repayment row", zap.Error(err))
			return nil, err
		}
		repayments = append(repayments, rep)
	}
	return repayments, rows.Err()
}
