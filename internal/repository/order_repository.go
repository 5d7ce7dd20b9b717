package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sweet-layers/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

const orderColumns = `id, items, total,
	delivery_first_name, delivery_last_name, delivery_email, delivery_phone,
	delivery_address, delivery_city, delivery_state, delivery_zip_code,
	delivery_date, delivery_time, delivery_special_instructions,
	status, created_at`

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	FindAll(ctx context.Context) ([]*domain.Order, error)
	FindByStatus(ctx context.Context, status string) ([]*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, id int64, update *domain.OrderUpdate) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// FindAll retrieves every order, newest first
func (r *orderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
}

// FindByStatus retrieves orders whose status matches case-insensitively
func (r *orderRepository) FindByStatus(ctx context.Context, status string) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE LOWER(status) = LOWER($1) ORDER BY id DESC`, status)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// Create inserts an order and fills in its assigned ID and creation time.
// An empty status is stored as pending.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (items, total,
			delivery_first_name, delivery_last_name, delivery_email, delivery_phone,
			delivery_address, delivery_city, delivery_state, delivery_zip_code,
			delivery_date, delivery_time, delivery_special_instructions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	d := order.DeliveryInfo
	err = r.db.QueryRowContext(
		ctx,
		query,
		string(items),
		order.Total,
		d.FirstName,
		d.LastName,
		d.Email,
		d.Phone,
		d.Address,
		d.City,
		d.State,
		d.ZipCode,
		d.DeliveryDate,
		d.DeliveryTime,
		d.SpecialInstructions,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// Update merges the non-nil fields of update into the stored order
func (r *orderRepository) Update(ctx context.Context, id int64, update *domain.OrderUpdate) (*domain.Order, error) {
	set := newSetClause()
	if update != nil {
		if update.Items != nil {
			items, err := json.Marshal(update.Items)
			if err != nil {
				return nil, fmt.Errorf("failed to encode order items: %w", err)
			}
			set.add("items", string(items))
		}
		if update.Total != nil {
			set.add("total", *update.Total)
		}
		if update.Status != nil {
			set.add("status", *update.Status)
		}
		if d := update.DeliveryInfo; d != nil {
			addString(set, "delivery_first_name", d.FirstName)
			addString(set, "delivery_last_name", d.LastName)
			addString(set, "delivery_email", d.Email)
			addString(set, "delivery_phone", d.Phone)
			addString(set, "delivery_address", d.Address)
			addString(set, "delivery_city", d.City)
			addString(set, "delivery_state", d.State)
			addString(set, "delivery_zip_code", d.ZipCode)
			addString(set, "delivery_date", d.DeliveryDate)
			addString(set, "delivery_time", d.DeliveryTime)
			addString(set, "delivery_special_instructions", d.SpecialInstructions)
		}
	}

	if len(set.args) == 0 {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE orders
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, set.String(), set.next(), orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

// Delete removes an order
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM orders WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func addString(set *setClause, column string, value *string) {
	if value != nil {
		set.add(column, *value)
	}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var items []byte
	d := &order.DeliveryInfo

	err := row.Scan(
		&order.ID,
		&items,
		&order.Total,
		&d.FirstName,
		&d.LastName,
		&d.Email,
		&d.Phone,
		&d.Address,
		&d.City,
		&d.State,
		&d.ZipCode,
		&d.DeliveryDate,
		&d.DeliveryTime,
		&d.SpecialInstructions,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Items = []domain.OrderItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}

	return order, nil
}
