package transport

import (
	"net/http"

	"sweet-layers/internal/domain"
	"sweet-layers/internal/middleware"
	"sweet-layers/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for order administration
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Patch("/{id}", h.UpdateOrder)
		r.Delete("/{id}", h.DeleteOrder)
	})
}

// ListOrders returns orders newest first, optionally filtered by ?status=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusBadGateway, "failed to load orders", map[string]interface{}{"retryable": true})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		if respondNotFound(w, err) {
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err), zap.Int64("order_id", id))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to load order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateOrder merges the given fields into an order
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var update domain.OrderUpdate
	if err := middleware.DecodeAndValidate(r, &update); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	order, err := h.orders.Update(r.Context(), id, &update)
	if err != nil {
		if respondNotFound(w, err) {
			return
		}
		h.logger.Error("Failed to update order", zap.Error(err), zap.Int64("order_id", id))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to update order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		if respondNotFound(w, err) {
			return
		}
		h.logger.Error("Failed to delete order", zap.Error(err), zap.Int64("order_id", id))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
