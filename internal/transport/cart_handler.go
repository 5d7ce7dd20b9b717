package transport

import (
	"net/http"

	"sweet-layers/internal/cart"
	"sweet-layers/internal/domain"
	"sweet-layers/internal/middleware"
	"sweet-layers/internal/pricing"
	"sweet-layers/internal/service"
	"sweet-layers/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size" validate:"required_trimmed"`
}

// UpdateItemRequest represents the set-quantity payload. Zero or negative
// quantities remove the line.
type UpdateItemRequest struct {
	Size     string `json:"size" validate:"required_trimmed"`
	Quantity int    `json:"quantity"`
}

// CartResponse is the cart with its derived totals
type CartResponse struct {
	Session    string            `json:"session"`
	Items      []domain.CartLine `json:"items"`
	TotalItems int               `json:"total_items"`
	Summary    pricing.Summary   `json:"summary"`
}

// CartHandler handles HTTP requests for the shopping cart
type CartHandler struct {
	sessions *cart.Sessions
	catalog  service.CatalogService
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(sessions *cart.Sessions, catalog service.CatalogService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalog,
		logger:   logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateItem)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (string, *cart.Store) {
	session := cartSessionID(w, r)
	return session, h.sessions.Get(r.Context(), session)
}

// GetCart returns the session's cart lines and price summary
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, store := h.store(w, r)
	middleware.RespondWithJSON(w, http.StatusOK, cartResponse(session, store))
}

// AddItem adds a product variant to the cart, merging with an existing line
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if respondNotFound(w, err) {
			return
		}
		h.logger.Error("Failed to load product for cart", zap.Error(err), zap.Int64("product_id", req.ProductID))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to load product")
		return
	}

	if !product.HasSize(req.Size) {
		middleware.RespondWithValidationErrors(w, []validation.FieldError{{
			Field:   "size",
			Message: "Please choose one of the available sizes",
		}})
		return
	}

	session, store := h.store(w, r)
	store.Add(r.Context(), product, req.Quantity, req.Size)

	middleware.RespondWithJSON(w, http.StatusOK, cartResponse(session, store))
}

// UpdateItem sets the quantity of a cart line
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	session, store := h.store(w, r)
	store.UpdateQuantity(r.Context(), productID, req.Size, req.Quantity)

	middleware.RespondWithJSON(w, http.StatusOK, cartResponse(session, store))
}

// RemoveItem removes a cart line. Removing an absent line is not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	session, store := h.store(w, r)
	store.Remove(r.Context(), productID, r.URL.Query().Get("size"))

	middleware.RespondWithJSON(w, http.StatusOK, cartResponse(session, store))
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, store := h.store(w, r)
	store.Clear(r.Context())

	middleware.RespondWithJSON(w, http.StatusOK, cartResponse(session, store))
}

func cartResponse(session string, store *cart.Store) CartResponse {
	items := store.Items()
	return CartResponse{
		Session:    session,
		Items:      items,
		TotalItems: store.TotalItems(),
		Summary:    pricing.Quote(pricing.Subtotal(items)),
	}
}
