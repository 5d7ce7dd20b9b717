package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sweet-layers/internal/domain"
	"sweet-layers/internal/repository"

	"go.uber.org/zap"
)

// OrderService defines order administration
type OrderService interface {
	List(ctx context.Context, status string) ([]*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, id int64, update *domain.OrderUpdate) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderService{
		orders: orders,
		logger: logger,
	}
}

// List returns all orders newest first, or only those with status when set
func (s *orderService) List(ctx context.Context, status string) ([]*domain.Order, error) {
	var (
		orders []*domain.Order
		err    error
	)

	if status = strings.TrimSpace(status); status != "" {
		orders, err = s.orders.FindByStatus(ctx, status)
	} else {
		orders, err = s.orders.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *orderService) Update(ctx context.Context, id int64, update *domain.OrderUpdate) (*domain.Order, error) {
	order, err := s.orders.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info("Order updated",
		zap.Int64("order_id", order.ID),
		zap.String("status", order.Status),
	)
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info("Order deleted", zap.Int64("order_id", id))
	return nil
}
