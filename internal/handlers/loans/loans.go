package loans

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/internal/service/loanservice"
	"github.com/GlebRadaev/bumdes/pkg/utils"
)

//go:generate mockgen -source=loans.go -destination=mock_loans.go -package=loans

type Service interface {
	Apply(ctx context.Context, userID int, app loanservice.Application) (*domain.Loan, error)
	GetLoans(ctx context.Context, userID int) ([]domain.Loan, error)
	Repay(ctx context.Context, userID int, loanID int, amount decimal.Decimal) (*domain.Repayment, error)
	ListAll(ctx context.Context) ([]domain.Loan, error)
	ListPending(ctx context.Context) ([]domain.Loan, error)
	Decide(ctx context.Context, loanID int, decision domain.LoanStatus, note string) (*domain.Loan, error)
}

type LoanHandler struct {
	loanService Service
}

func New(loanService Service) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// Apply godoc
//
//	@Summary	Apply for a loan
//	@Tags		Loans
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.LoanApplyRequestDTO	true	"Application"
//	@Success	201		{object}	dto.LoanDTO
//	@Failure	400		{object}	utils.Response	"Invalid application"
//	@Failure	401		{object}	utils.Response	"User not authorized"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/loans/apply [post]
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanApplyRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	loan, err := h.loanService.Apply(r.Context(), handlerutil.UserID(r), loanservice.Application{
		Principal:         req.Principal,
		TermMonths:        req.TermMonths,
		InstallmentAmount: req.InstallmentAmount,
		Purpose:           req.Purpose,
	})
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewLoanDTO(loan))
}

// GetLoans godoc
//
//	@Summary	Own loans
//	@Tags		Loans
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.LoanDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/loans/my [get]
func (h *LoanHandler) GetLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.GetLoans(r.Context(), handlerutil.UserID(r))
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanDTOs(loans))
}

// Pay godoc
//
//	@Summary		Pay an installment
//	@Description	Debits the member balance. The loan becomes paid_off with the last installment.
//	@Tags			Loans
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.LoanPayRequestDTO	true	"Installment"
//	@Success		201		{object}	dto.RepaymentDTO
//	@Failure		400		{object}	utils.Response	"Insufficient balance or loan not active"
//	@Failure		404		{object}	utils.Response	"Loan not found"
//	@Failure		409		{object}	utils.Response	"Concurrent update, retry"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/loans/pay [post]
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanPayRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	rep, err := h.loanService.Repay(r.Context(), handlerutil.UserID(r), req.LoanID, req.Amount)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewRepaymentDTO(rep))
}

// ListAll godoc
//
//	@Summary	All loans
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.LoanDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/loans [get]
func (h *LoanHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.ListAll(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanDTOs(loans))
}

// ListPending godoc
//
//	@Summary	Loans waiting for a decision
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.LoanDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/loans/pending [get]
func (h *LoanHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.ListPending(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanDTOs(loans))
}

// Decide godoc
//
//	@Summary		Approve or reject a loan
//	@Description	Approval disburses the principal to the member balance and books a cash-out journal entry.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"Loan id"
//	@Param			request	body		dto.LoanDecisionRequestDTO	true	"Decision"
//	@Success		200		{object}	dto.LoanDTO
//	@Failure		400		{object}	utils.Response	"Invalid decision"
//	@Failure		404		{object}	utils.Response	"Loan not found"
//	@Failure		409		{object}	utils.Response	"Loan already decided"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/loans/{id}/status [put]
func (h *LoanHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.LoanDecisionRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	loan, err := h.loanService.Decide(r.Context(), id, domain.LoanStatus(req.Status), req.Note)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanDTO(loan))
}
