package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

type WithdrawRequestDTO struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"50000"`
	Description string          `json:"description" validate:"max=255" example:"Biaya sekolah"`
}

type WithdrawalDecisionRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=approved rejected" example:"approved"`
}

type SavingsDTO struct {
	ID          int             `json:"id" example:"8"`
	UserID      int             `json:"user_id" example:"12"`
	UserName    string          `json:"user_name,omitempty" example:"Siti Aminah"`
	Type        string          `json:"type" example:"withdrawal"`
	Status      string          `json:"status" example:"pending"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"50000"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewSavingsDTO(e *domain.SavingsEntry) SavingsDTO {
	return SavingsDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		UserName:    e.UserName,
		Type:        string(e.Type),
		Status:      string(e.Status),
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func NewSavingsDTOs(entries []domain.SavingsEntry) []SavingsDTO {
	out := make([]SavingsDTO, 0, len(entries))
	for i := range entries {
		out = append(out, NewSavingsDTO(&entries[i]))
	}
	return out
}

type PaymentRequestDTO struct {
	Amount int64  `json:"amount" validate:"required,gt=0" example:"50000"`
	Memo   string `json:"description" validate:"max=100" example:"Setoran Januari"`
}

type PaymentResponseDTO struct {
	SnapToken   string `json:"snap_token"`
	OrderID     string `json:"order_id" example:"SETOR-17000000000000"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
