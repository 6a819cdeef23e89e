package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
)

// ProductRequestDTO is read from multipart/form-data; the optional picture
// comes in the "photo" file field.
type ProductRequestDTO struct {
	Name        string `form:"name" validate:"required,max=150"`
	Description string `form:"description" validate:"max=1000"`
	Category    string `form:"category" validate:"max=50"`
	Price       string `form:"price" validate:"required,numeric"`
	Stock       int    `form:"stock" validate:"gte=0"`
}

type ProductDTO struct {
	ID          int             `json:"id" example:"3"`
	Name        string          `json:"name" example:"Beras 5kg"`
	Description string          `json:"description"`
	Category    string          `json:"category" example:"sembako"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"65000"`
	Stock       int             `json:"stock" example:"20"`
	Photo       string          `json:"photo,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Photo:       p.Photo,
		CreatedAt:   p.CreatedAt,
	}
}

func NewProductDTOs(products []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, NewProductDTO(&products[i]))
	}
	return out
}
