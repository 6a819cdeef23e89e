package savings

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/pkg/utils"
)

//go:generate mockgen -source=savings.go -destination=mock_savings.go -package=savings

type Service interface {
	GetSavings(ctx context.Context, userID int) ([]domain.SavingsEntry, error)
	RequestWithdrawal(ctx context.Context, userID int, amount decimal.Decimal, description string) (*domain.SavingsEntry, error)
	ListAll(ctx context.Context) ([]domain.SavingsEntry, error)
	ListPendingWithdrawals(ctx context.Context) ([]domain.SavingsEntry, error)
	ProcessWithdrawal(ctx context.Context, id int, decision domain.SavingsStatus) (*domain.SavingsEntry, error)
}

type SavingsHandler struct {
	savingsService Service
}

func New(savingsService Service) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

// Withdraw godoc
//
//	@Summary		Request a cash withdrawal
//	@Description	Creates a pending request. The balance is debited only when an admin approves it.
//	@Tags			Savings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdrawal"
//	@Success		201		{object}	dto.SavingsDTO
//	@Failure		400		{object}	utils.Response	"Insufficient balance or invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/savings/withdraw [post]
func (h *SavingsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	entry, err := h.savingsService.RequestWithdrawal(r.Context(), handlerutil.UserID(r), req.Amount, req.Description)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewSavingsDTO(entry))
}

// GetSavings godoc
//
//	@Summary	Own savings and withdrawals
//	@Tags		Savings
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.SavingsDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/savings/my [get]
func (h *SavingsHandler) GetSavings(w http.ResponseWriter, r *http.Request) {
	entries, err := h.savingsService.GetSavings(r.Context(), handlerutil.UserID(r))
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewSavingsDTOs(entries))
}

// ListAll godoc
//
//	@Summary	All savings entries
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.SavingsDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/savings [get]
func (h *SavingsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.savingsService.ListAll(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewSavingsDTOs(entries))
}

// ListPendingWithdrawals godoc
//
//	@Summary	Withdrawals waiting for a decision
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.SavingsDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/withdrawals/pending [get]
func (h *SavingsHandler) ListPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	entries, err := h.savingsService.ListPendingWithdrawals(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewSavingsDTOs(entries))
}

// ProcessWithdrawal godoc
//
//	@Summary		Approve or reject a withdrawal
//	@Description	Approval debits the member balance and books a cash-out journal entry.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int									true	"Savings entry id"
//	@Param			request	body		dto.WithdrawalDecisionRequestDTO	true	"Decision"
//	@Success		200		{object}	dto.SavingsDTO
//	@Failure		400		{object}	utils.Response	"Insufficient balance or not a withdrawal"
//	@Failure		404		{object}	utils.Response	"Entry not found"
//	@Failure		409		{object}	utils.Response	"Already decided"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/{id}/status [put]
func (h *SavingsHandler) ProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.WithdrawalDecisionRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	entry, err := h.savingsService.ProcessWithdrawal(r.Context(), id, domain.SavingsStatus(req.Status))
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewSavingsDTO(entry))
}
