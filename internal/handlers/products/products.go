package products

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/pkg/imgproc"
	"github.com/GlebRadaev/bumdes/pkg/utils"
	"github.com/GlebRadaev/bumdes/pkg/validate"
)

//go:generate mockgen -source=products.go -destination=mock_products.go -package=products

const maxUploadBytes = 10 << 20

type Service interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type ProductHandler struct {
	productService Service
}

func New(productService Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List godoc
//
//	@Summary	List products
//	@Tags		Products
//	@Produce	json
//	@Success	200	{array}		dto.ProductDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewProductDTOs(products))
}

// parseForm reads the product fields and the optional "photo" file. Any
// failure is already answered.
func parseForm(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form")
		return nil, false
	}
	req := dto.ProductRequestDTO{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Price:       strings.TrimSpace(r.FormValue("price")),
	}
	if s := r.FormValue("stock"); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "stock must be a whole number")
			return nil, false
		}
		req.Stock = stock
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "price must be a number")
		return nil, false
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		Stock:       req.Stock,
	}

	file, _, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		product.Photo, err = imgproc.CompressToDataURI(file, imgproc.Product)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, imgproc.ErrNotImage.Error())
			return nil, false
		}
	case !errors.Is(err, http.ErrMissingFile):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form")
		return nil, false
	}
	return product, true
}

// Create godoc
//
//	@Summary	Add a product
//	@Tags		Admin
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		name		formData	string	true	"Name"
//	@Param		description	formData	string	false	"Description"
//	@Param		category	formData	string	false	"Category"
//	@Param		price		formData	string	true	"Price"
//	@Param		stock		formData	int		false	"Stock"
//	@Param		photo		formData	file	false	"Picture"
//	@Success	201			{object}	dto.ProductDTO
//	@Failure	400			{object}	utils.Response	"Invalid form"
//	@Failure	403			{object}	utils.Response	"Forbidden"
//	@Failure	500			{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	product, ok := parseForm(w, r)
	if !ok {
		return
	}
	created, err := h.productService.Create(r.Context(), product)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewProductDTO(created))
}

// Update godoc
//
//	@Summary		Update a product
//	@Description	Without a new photo the current one is kept.
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		int		true	"Product id"
//	@Param			name		formData	string	true	"Name"
//	@Param			description	formData	string	false	"Description"
//	@Param			category	formData	string	false	"Category"
//	@Param			price		formData	string	true	"Price"
//	@Param			stock		formData	int		false	"Stock"
//	@Param			photo		formData	file	false	"Picture"
//	@Success		200			{object}	dto.ProductDTO
//	@Failure		400			{object}	utils.Response	"Invalid form"
//	@Failure		404			{object}	utils.Response	"Product not found"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	product, ok := parseForm(w, r)
	if !ok {
		return
	}
	product.ID = id
	updated, err := h.productService.Update(r.Context(), product)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewProductDTO(updated))
}

// Delete godoc
//
//	@Summary	Delete a product
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Product id"
//	@Success	200	{object}	utils.Response
//	@Failure	404	{object}	utils.Response	"Product not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(r.Context(), id); err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Product deleted")
}
