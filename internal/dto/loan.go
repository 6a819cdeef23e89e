package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

type LoanApplyRequestDTO struct {
	Principal         decimal.Decimal `json:"principal" swaggertype:"string" example:"3000000"`
	TermMonths        int             `json:"term_months" validate:"required,gte=1,lte=60" example:"12"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" swaggertype:"string" example:"275000"`
	Purpose           string          `json:"purpose" validate:"max=255" example:"Modal warung"`
}

type LoanDTO struct {
	ID                int             `json:"id" example:"5"`
	UserID            int             `json:"user_id" example:"12"`
	UserName          string          `json:"user_name,omitempty" example:"Siti Aminah"`
	Principal         decimal.Decimal `json:"principal" swaggertype:"string" example:"3000000"`
	TermMonths        int             `json:"term_months" example:"12"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" swaggertype:"string" example:"275000"`
	Purpose           string          `json:"purpose"`
	Status            string          `json:"status" example:"pending"`
	AdminNote         string          `json:"admin_note,omitempty"`
	AppliedAt         time.Time       `json:"applied_at"`
}

func NewLoanDTO(l *domain.Loan) LoanDTO {
	return LoanDTO{
		ID:                l.ID,
		UserID:            l.UserID,
		UserName:          l.UserName,
		Principal:         l.Principal,
		TermMonths:        l.TermMonths,
		InstallmentAmount: l.InstallmentAmount,
		Purpose:           l.Purpose,
		Status:            string(l.Status),
		AdminNote:         l.AdminNote,
		AppliedAt:         l.AppliedAt,
	}
}

func newLoanPtr(l *domain.Loan) *LoanDTO {
	if l == nil {
		return nil
	}
	out := NewLoanDTO(l)
	return &out
}

func NewLoanDTOs(loans []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, NewLoanDTO(&loans[i]))
	}
	return out
}

type LoanPayRequestDTO struct {
	LoanID int             `json:"loan_id" validate:"required,gt=0" example:"5"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"275000"`
}

type LoanDecisionRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=approved rejected" example:"approved"`
	Note   string `json:"admin_note" validate:"max=255"`
}

type RepaymentDTO struct {
	ID               int             `json:"id"`
	LoanID           int             `json:"loan_id" example:"5"`
	InstallmentIndex int             `json:"installment" example:"1"`
	Amount           decimal.Decimal `json:"amount" swaggertype:"string" example:"275000"`
	PaidAt           time.Time       `json:"paid_at"`
}

func NewRepaymentDTO(r *domain.Repayment) RepaymentDTO {
	return RepaymentDTO{
		ID:               r.ID,
		LoanID:           r.LoanID,
		InstallmentIndex: r.InstallmentIndex,
		Amount:           r.Amount,
		PaidAt:           r.PaidAt,
	}
}

func NewRepaymentDTOs(reps []domain.Repayment) []RepaymentDTO {
	out := make([]RepaymentDTO, 0, len(reps))
	for i := range reps {
		out = append(out, NewRepaymentDTO(&reps[i]))
	}
	return out
}
