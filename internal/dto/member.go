package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

type UserDTO struct {
	ID          int             `json:"id" example:"12"`
	NIK         string          `json:"nik" example:"3201010101010001"`
	Name        string          `json:"name" example:"Siti Aminah"`
	Email       string          `json:"email" example:"siti@desa.id"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone" example:"081234567890"`
	Role        string          `json:"role" example:"member"`
	Status      string          `json:"status" example:"verified"`
	Balance     decimal.Decimal `json:"balance" swaggertype:"string" example:"150000"`
	IDCardPhoto string          `json:"id_card_photo,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewUserDTO(u *domain.User, withPhoto bool) UserDTO {
	out := UserDTO{
		ID:        u.ID,
		NIK:       u.NIK,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Status:    string(u.VerificationStatus),
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
	if withPhoto {
		out.IDCardPhoto = u.IDCardPhoto
	}
	return out
}

func NewUserDTOs(users []domain.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, NewUserDTO(&users[i], false))
	}
	return out
}

type VerificationRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected" example:"verified"`
}

type HistoryItemDTO struct {
	Kind      string          `json:"kind" example:"purchase"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"50000"`
	Direction string          `json:"direction" example:"out"`
	At        time.Time       `json:"at"`
}

func NewHistoryDTOs(items []domain.HistoryItem) []HistoryItemDTO {
	out := make([]HistoryItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, HistoryItemDTO(item))
	}
	return out
}

type MemberDetailDTO struct {
	User       UserDTO        `json:"user"`
	Loan       *LoanDTO       `json:"loan"`
	Repayments []RepaymentDTO `json:"repayments"`
}

func NewMemberDetailDTO(d *domain.MemberDetail) MemberDetailDTO {
	return MemberDetailDTO{
		User:       NewUserDTO(d.User, true),
		Loan:       newLoanPtr(d.Loan),
		Repayments: NewRepaymentDTOs(d.Repayments),
	}
}

type ProfileDTO struct {
	User    UserDTO          `json:"user"`
	Loan    *LoanDTO         `json:"loan"`
	History []HistoryItemDTO `json:"transactions"`
}

func NewProfileDTO(p *domain.Profile) ProfileDTO {
	return ProfileDTO{
		User:    NewUserDTO(p.User, false),
		Loan:    newLoanPtr(p.Loan),
		History: NewHistoryDTOs(p.History),
	}
}
