package service

import (
	"context"
	"errors"
	"fmt"

	"sweet-layers/internal/cart"
	"sweet-layers/internal/domain"
	"sweet-layers/internal/metrics"
	"sweet-layers/internal/pricing"
	"sweet-layers/internal/repository"
	"sweet-layers/internal/validation"

	"go.uber.org/zap"
)

// ErrOrderSubmission is returned when the order store rejects or fails a create.
// The cart is left untouched and the caller may retry.
var ErrOrderSubmission = errors.New("order submission failed")

// ValidationError carries every failing checkout field
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout validation failed: %d field(s)", len(e.Fields))
}

// CheckoutService defines the order submission pipeline
type CheckoutService interface {
	Submit(ctx context.Context, store *cart.Store, form *domain.CheckoutForm) (*domain.Order, error)
}

type checkoutService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(orders repository.OrderRepository, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		orders: orders,
		logger: logger,
	}
}

// Submit validates the form, composes the order from the cart, persists it
// and settles the submitted lines, which empties the cart unless the session
// changed it meanwhile. Nothing is removed unless the order was created.
func (s *checkoutService) Submit(ctx context.Context, store *cart.Store, form *domain.CheckoutForm) (*domain.Order, error) {
	lines := store.Items()

	fields := validation.Fields(form)
	if len(lines) == 0 {
		fields = append(fields, validation.FieldError{
			Field:   "items",
			Message: "Your cart is empty",
		})
	}
	if len(fields) > 0 {
		metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, &ValidationError{Fields: fields}
	}

	order := pricing.ComposeOrder(lines, form)

	if err := s.orders.Create(ctx, order); err != nil {
		metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.logger.Error("Failed to create order",
			zap.Error(err),
			zap.Int("items", len(order.Items)),
			zap.String("total", order.Total.StringFixed(2)),
		)
		return nil, fmt.Errorf("%w: %w", ErrOrderSubmission, err)
	}

	store.Settle(ctx, lines)
	metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomePlaced).Inc()

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}
