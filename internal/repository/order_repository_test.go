package repository

import (
	"context"
	"testing"

	"sweet-layers/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(status string) *domain.Order {
	return &domain.Order{
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Classic Vanilla Celebration", Quantity: 1, Size: "8 inch", Price: decimal.RequireFromString("45.00")},
			{ProductID: 6, ProductName: "Red Velvet Cupcakes", Quantity: 2, Size: "dozen", Price: decimal.RequireFromString("28.00")},
		},
		Total: decimal.RequireFromString("109.08"),
		DeliveryInfo: domain.DeliveryInfo{
			FirstName:    "Ada",
			LastName:     "Baker",
			Email:        "ada@example.com",
			Phone:        "(555) 123-4567",
			Address:      "12 Flour Street",
			City:         "Portland",
			State:        "OR",
			ZipCode:      "97201",
			DeliveryDate: "2026-11-02",
		},
		Status: status,
	}
}

func clearOrders(t *testing.T) {
	t.Helper()
	if _, err := testDB.Exec(`DELETE FROM orders`); err != nil {
		t.Fatalf("Failed to clear orders: %v", err)
	}
}

// Feature: bakery-storefront, Property 15: Orders round-trip through the store
func TestProperty_OrderCreationPreservesItems(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("items keep their order, sizes and unit prices", prop.ForAll(
		func(quantities []int, cents int64) bool {
			order := &domain.Order{Total: decimal.New(cents, -2), Status: domain.OrderStatusConfirmed}
			for i, qty := range quantities {
				order.Items = append(order.Items, domain.OrderItem{
					ProductID:   int64(i + 1),
					ProductName: "Cake",
					Quantity:    qty,
					Size:        "6 inch",
					Price:       decimal.New(cents, -2),
				})
			}

			if err := repo.Create(ctx, order); err != nil {
				t.Logf("Failed to create order: %v", err)
				return false
			}
			defer repo.Delete(ctx, order.ID)

			got, err := repo.FindByID(ctx, order.ID)
			if err != nil || len(got.Items) != len(order.Items) {
				return false
			}
			for i := range got.Items {
				if got.Items[i].ProductID != order.Items[i].ProductID ||
					got.Items[i].Quantity != order.Items[i].Quantity ||
					!got.Items[i].Price.Equal(order.Items[i].Price) {
					return false
				}
			}
			return got.Total.Equal(order.Total) && got.Status == domain.OrderStatusConfirmed
		},
		gen.SliceOfN(3, gen.IntRange(1, 12)),
		gen.Int64Range(0, 1000000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestOrderRepository_EmptyStatusDefaultsToPending(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := newOrder("")
	require.NoError(t, repo.Create(ctx, order))
	t.Cleanup(func() { repo.Delete(ctx, order.ID) })

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.Equal(t, order.DeliveryInfo, got.DeliveryInfo)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestOrderRepository_FindByStatusIgnoresCase(t *testing.T) {
	clearOrders(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	pending := newOrder(domain.OrderStatusPending)
	confirmed := newOrder(domain.OrderStatusConfirmed)
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, confirmed))

	orders, err := repo.FindByStatus(ctx, "CONFIRMED")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, confirmed.ID, orders[0].ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, confirmed.ID, all[0].ID)
}

func TestOrderRepository_UpdateMergesDeliveryFields(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := newOrder(domain.OrderStatusConfirmed)
	require.NoError(t, repo.Create(ctx, order))
	t.Cleanup(func() { repo.Delete(ctx, order.ID) })

	status := "delivered"
	city := "Salem"
	updated, err := repo.Update(ctx, order.ID, &domain.OrderUpdate{
		Status:       &status,
		DeliveryInfo: &domain.DeliveryInfoUpdate{City: &city},
	})
	require.NoError(t, err)

	assert.Equal(t, "delivered", updated.Status)
	assert.Equal(t, "Salem", updated.DeliveryInfo.City)
	assert.Equal(t, "Portland", order.DeliveryInfo.City)
	assert.Equal(t, "12 Flour Street", updated.DeliveryInfo.Address)
	assert.Len(t, updated.Items, 2)
}

func TestOrderRepository_NotFound(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 987654)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	status := "cancelled"
	_, err = repo.Update(ctx, 987654, &domain.OrderUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 987654), ErrOrderNotFound)
}
