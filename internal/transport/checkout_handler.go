package transport

import (
	"errors"
	"net/http"

	"sweet-layers/internal/cart"
	"sweet-layers/internal/domain"
	"sweet-layers/internal/middleware"
	"sweet-layers/internal/pricing"
	"sweet-layers/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutResponse is returned for a placed order
type CheckoutResponse struct {
	Order   *domain.Order   `json:"order"`
	Summary pricing.Summary `json:"summary"`
}

// CheckoutHandler handles order submission
type CheckoutHandler struct {
	sessions *cart.Sessions
	checkout service.CheckoutService
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(sessions *cart.Sessions, checkout service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		checkout: checkout,
		logger:   logger,
	}
}

// RegisterRoutes registers the checkout route behind the given middleware
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.With(middlewares...).Post("/api/checkout", h.Submit)
}

// Submit validates the checkout form and places an order from the session's cart
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form domain.CheckoutForm
	if err := middleware.Decode(r, &form); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := cartSessionID(w, r)
	store := h.sessions.Get(r.Context(), session)

	order, err := h.checkout.Submit(r.Context(), store, &form)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			middleware.RespondWithValidationErrors(w, validationErr.Fields)
		case errors.Is(err, service.ErrOrderSubmission):
			middleware.RespondWithErrorDetails(w, http.StatusBadGateway,
				"we could not place your order, your cart has been kept", map[string]interface{}{"retryable": true})
		default:
			h.logger.Error("Checkout failed", zap.Error(err), zap.String("session", session))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Order:   order,
		Summary: pricing.Quote(pricing.ItemsSubtotal(order.Items)),
	})
}
