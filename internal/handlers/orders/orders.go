package orders

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/pkg/utils"
)

//go:generate mockgen -source=orders.go -destination=mock_orders.go -package=orders

type Service interface {
	Checkout(ctx context.Context, userID int, items []domain.CartItem, total decimal.Decimal) (*domain.Order, error)
	GetOrders(ctx context.Context, userID int) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	GetLines(ctx context.Context, orderID int) ([]domain.OrderLine, error)
	UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) error
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Checkout godoc
//
//	@Summary		Buy the cart
//	@Description	Pays the cart from the member balance. Stock, balance, order and cash journal change together or not at all.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.CheckoutRequestDTO	true	"Cart"
//	@Success		201		{object}	dto.OrderDTO
//	@Failure		400		{object}	utils.Response	"Insufficient balance, out of stock or invalid cart"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		409		{object}	utils.Response	"Concurrent update, retry"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/orders/checkout [post]
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	order, err := h.orderService.Checkout(r.Context(), handlerutil.UserID(r), req.Cart(), req.Total)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewOrderDTO(order))
}

// GetOrders godoc
//
//	@Summary	Own order history
//	@Tags		Orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.OrderDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/orders/my [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetOrders(r.Context(), handlerutil.UserID(r))
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderDTOs(orders))
}

// ListAll godoc
//
//	@Summary	All orders
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.OrderDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/orders [get]
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderDTOs(orders))
}

// GetLines godoc
//
//	@Summary	Order lines
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Order id"
//	@Success	200	{array}		dto.OrderLineDTO
//	@Failure	400	{object}	utils.Response	"Invalid id"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/orders/{id} [get]
func (h *OrderHandler) GetLines(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	lines, err := h.orderService.GetLines(r.Context(), id)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderLineDTOs(lines))
}

// UpdateStatus godoc
//
//	@Summary		Move an order forward
//	@Description	pending -> processing -> completed; any open order may be cancelled. Completed and cancelled are final.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"Order id"
//	@Param			request	body		dto.OrderStatusRequestDTO	true	"New status"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid status"
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Failure		409		{object}	utils.Response	"Order already final"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.OrderStatusRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.orderService.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status)); err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Order status changed to "+req.Status)
}
