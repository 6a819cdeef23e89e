package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

type StatsDTO struct {
	Members       int             `json:"members" example:"120"`
	TotalBalance  decimal.Decimal `json:"total_balance" swaggertype:"string" example:"15000000"`
	PendingLoans  int             `json:"pending_loans" example:"3"`
	PendingOrders int             `json:"pending_orders" example:"7"`
	RecentLoans   []LoanDTO       `json:"recent_loans"`
	RecentSavings []SavingsDTO    `json:"recent_savings"`
}

func NewStatsDTO(s *domain.Stats) StatsDTO {
	return StatsDTO{
		Members:       s.Members,
		TotalBalance:  s.TotalBalance,
		PendingLoans:  s.PendingLoans,
		PendingOrders: s.PendingOrders,
		RecentLoans:   NewLoanDTOs(s.RecentLoans),
		RecentSavings: NewSavingsDTOs(s.RecentSavings),
	}
}

type JournalEntryDTO struct {
	ID             int             `json:"id"`
	Description    string          `json:"description" example:"Store purchase: Siti Aminah (order 10)"`
	Debit          decimal.Decimal `json:"debit" swaggertype:"string" example:"130000"`
	Credit         decimal.Decimal `json:"credit" swaggertype:"string" example:"0"`
	RunningBalance decimal.Decimal `json:"running_balance" swaggertype:"string" example:"2130000"`
	Category       string          `json:"category" example:"purchase"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CashReportDTO struct {
	TotalDebit  decimal.Decimal   `json:"total_debit" swaggertype:"string" example:"5000000"`
	TotalCredit decimal.Decimal   `json:"total_credit" swaggertype:"string" example:"3000000"`
	Entries     []JournalEntryDTO `json:"entries"`
}

func NewCashReportDTO(r *domain.CashReport) CashReportDTO {
	entries := make([]JournalEntryDTO, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, JournalEntryDTO{
			ID:             e.ID,
			Description:    e.Description,
			Debit:          e.Debit,
			Credit:         e.Credit,
			RunningBalance: e.RunningBalance,
			Category:       string(e.Category),
			CreatedAt:      e.CreatedAt,
		})
	}
	return CashReportDTO{
		TotalDebit:  r.Summary.TotalDebit,
		TotalCredit: r.Summary.TotalCredit,
		Entries:     entries,
	}
}
