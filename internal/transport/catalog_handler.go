package transport

import (
	"net/http"

	"sweet-layers/internal/domain"
	"sweet-layers/internal/middleware"
	"sweet-layers/internal/service"
	"sweet-layers/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the product creation payload
type ProductRequest struct {
	Name        string          `json:"name" validate:"required_trimmed,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Category    string          `json:"category" validate:"required_trimmed,max=100"`
	Sizes       []string        `json:"sizes" validate:"required,min=1,dive,required_trimmed"`
	InStock     *bool           `json:"in_stock"`
	Featured    bool            `json:"featured"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
}

// CategoriesResponse lists the storefront categories with product counts
type CategoriesResponse struct {
	Categories  []domain.CategoryCount `json:"categories"`
	Unavailable bool                   `json:"unavailable,omitempty"`
}

// CatalogHandler handles HTTP requests for products and categories
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/featured", h.FeaturedProducts)
		r.Get("/search", h.SearchProducts)
		r.Get("/{id}", h.GetProduct)
		r.Patch("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/categories/{category}/products", h.ProductsByCategory)
}

// ListProducts browses the catalog with optional category, search, price and sort parameters
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, fieldErrors := parseCatalogQuery(r)
	if len(fieldErrors) > 0 {
		middleware.RespondWithValidationErrors(w, fieldErrors)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Browse(r.Context(), query))
}

func (h *CatalogHandler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Featured(r.Context()))
}

// SearchProducts matches ?q= against name, description and category
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Search(r.Context(), r.URL.Query().Get("q")))
}

func (h *CatalogHandler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.ByCategory(r.Context(), chi.URLParam(r, "category")))
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	counts, unavailable := h.catalog.Categories(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, CategoriesResponse{
		Categories:  counts,
		Unavailable: unavailable,
	})
}

// GetProduct returns a single product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if respondNotFound(w, err) {
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to load product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct adds a product to the catalog
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}
	if req.Price.IsNegative() {
		middleware.RespondWithValidationErrors(w, []validation.FieldError{{Field: "price", Message: "Price cannot be negative"}})
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Category:    req.Category,
		Sizes:       req.Sizes,
		InStock:     inStock,
		Featured:    req.Featured,
		Rating:      req.Rating,
	}

	if err := h.catalog.CreateProduct(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct merges the given fields into a product
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var update domain.ProductUpdate
	if err := middleware.DecodeAndValidate(r, &update); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}
	if update.IsEmpty() {
		middleware.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if update.Price != nil && update.Price.IsNegative() {
		middleware.RespondWithValidationErrors(w, []validation.FieldError{{Field: "price", Message: "Price cannot be negative"}})
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, &update)
	if err != nil {
		if respondNotFound(w, err) {
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		if respondNotFound(w, err) {
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseCatalogQuery(r *http.Request) (service.CatalogQuery, []validation.FieldError) {
	values := r.URL.Query()
	query := service.CatalogQuery{
		Category: values.Get("category"),
		Search:   values.Get("search"),
		Sort:     values.Get("sort"),
	}

	var fieldErrors []validation.FieldError

	for _, bound := range []struct {
		param  string
		target **decimal.Decimal
	}{
		{"min_price", &query.MinPrice},
		{"max_price", &query.MaxPrice},
	} {
		raw := values.Get(bound.param)
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, validation.FieldError{Field: bound.param, Message: "Must be a number"})
			continue
		}
		*bound.target = &price
	}

	if !service.IsValidSort(query.Sort) {
		fieldErrors = append(fieldErrors, validation.FieldError{
			Field:   "sort",
			Message: "Must be one of name price-low price-high rating",
		})
	}

	return query, fieldErrors
}
