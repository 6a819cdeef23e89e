package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

type CheckoutItemDTO struct {
	ProductID int `json:"product_id" validate:"required,gt=0" example:"3"`
	Quantity  int `json:"qty" validate:"required,gt=0" example:"2"`
}

type CheckoutRequestDTO struct {
	Total decimal.Decimal   `json:"total_amount" swaggertype:"string" example:"130000"`
	Items []CheckoutItemDTO `json:"items" validate:"required,min=1,dive"`
}

func (r CheckoutRequestDTO) Cart() []domain.CartItem {
	cart := make([]domain.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		cart = append(cart, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return cart
}

type OrderLineDTO struct {
	ID          int             `json:"id"`
	ProductID   int             `json:"product_id" example:"3"`
	ProductName string          `json:"product_name" example:"Beras 5kg"`
	Quantity    int             `json:"qty" example:"2"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"65000"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string" example:"130000"`
}

func NewOrderLineDTOs(lines []domain.OrderLine) []OrderLineDTO {
	out := make([]OrderLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLineDTO{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}

type OrderDTO struct {
	ID          int             `json:"id" example:"10"`
	UserID      int             `json:"user_id" example:"12"`
	UserName    string          `json:"user_name,omitempty" example:"Siti Aminah"`
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"string" example:"130000"`
	Status      string          `json:"status" example:"pending"`
	Summary     string          `json:"summary,omitempty" example:"Beras 5kg x2"`
	CreatedAt   time.Time       `json:"created_at"`
	Lines       []OrderLineDTO  `json:"items,omitempty"`
}

func NewOrderDTO(o *domain.Order) OrderDTO {
	out := OrderDTO{
		ID:          o.ID,
		UserID:      o.UserID,
		UserName:    o.UserName,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		Summary:     o.Summary,
		CreatedAt:   o.CreatedAt,
	}
	if len(o.Lines) > 0 {
		out.Lines = NewOrderLineDTOs(o.Lines)
	}
	return out
}

func NewOrderDTOs(orders []domain.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderDTO(&orders[i]))
	}
	return out
}

type OrderStatusRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed cancelled" example:"processing"`
}
