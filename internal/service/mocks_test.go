package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"sweet-layers/internal/domain"
	"sweet-layers/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// Mock repositories for testing
type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
	fail     bool
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[int64]*domain.Product), nextID: 1}
	for _, p := range products {
		m.products[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *mockProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	if m.fail {
		return nil, errStoreDown
	}
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	return products, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	if m.fail {
		return nil, errStoreDown
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if m.fail {
		return errStoreDown
	}
	product.ID = m.nextID
	m.nextID++
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, update *domain.ProductUpdate) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.InStock != nil {
		p.InStock = *update.InStock
	}
	return p, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type mockOrderRepository struct {
	orders  map[int64]*domain.Order
	nextID  int64
	fail    bool
	creates int
	// onCreate runs inside Create, before the order is stored
	onCreate func()
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (m *mockOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	if m.fail {
		return nil, errStoreDown
	}
	orders := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (m *mockOrderRepository) FindByStatus(ctx context.Context, status string) ([]*domain.Order, error) {
	all, err := m.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var orders []*domain.Order
	for _, o := range all {
		if o.Status == status {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.creates++
	if m.onCreate != nil {
		m.onCreate()
	}
	if m.fail {
		return errStoreDown
	}
	order.ID = m.nextID
	m.nextID++
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) Update(ctx context.Context, id int64, update *domain.OrderUpdate) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.Total != nil {
		o.Total = *update.Total
	}
	return o, nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

// memoryStorage is a cart snapshot slot held in memory
type memoryStorage struct {
	mu    sync.Mutex
	lines []domain.CartLine
}

func (m *memoryStorage) Load(ctx context.Context) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.lines...), nil
}

func (m *memoryStorage) Save(ctx context.Context, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append([]domain.CartLine(nil), lines...)
	return nil
}
