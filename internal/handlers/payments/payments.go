package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/internal/payment"
	"github.com/GlebRadaev/bumdes/internal/service/paymentservice"
	"github.com/GlebRadaev/bumdes/pkg/utils"
)

//go:generate mockgen -source=payments.go -destination=mock_payments.go -package=payments

type Service interface {
	CreatePayment(ctx context.Context, userID int, amount int64, memo string) (*paymentservice.Session, error)
	HandleNotification(ctx context.Context, n payment.Notification) error
}

type PaymentHandler struct {
	paymentService Service
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePayment godoc
//
//	@Summary		Open a savings top-up payment
//	@Description	Returns a gateway token. The balance is credited when the gateway reports settlement.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.PaymentRequestDTO	true	"Top-up"
//	@Success		200		{object}	dto.PaymentResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/midtrans [post]
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	session, err := h.paymentService.CreatePayment(r.Context(), handlerutil.UserID(r), req.Amount, req.Memo)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PaymentResponseDTO{
		SnapToken:   session.Token,
		OrderID:     session.OrderID,
		RedirectURL: session.RedirectURL,
	})
}

// Webhook godoc
//
//	@Summary		Gateway payment notification
//	@Description	Safe to deliver more than once: a settled order id is credited at most once.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		payment.Notification	true	"Notification"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Body is not a notification"
//	@Failure		401		{object}	utils.Response	"Invalid signature"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/midtrans/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var n payment.Notification
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&n); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Bad request")
		return
	}

	err := h.paymentService.HandleNotification(r.Context(), n)
	switch {
	case err == nil:
		utils.RespondWithMessage(w, http.StatusOK, "OK")
	case errors.Is(err, domain.ErrInvalidSignature):
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid signature")
	default:
		zap.L().Error("webhook failed", zap.String("orderID", n.OrderID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
