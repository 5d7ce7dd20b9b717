package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"sweet-layers/internal/cart"
	"sweet-layers/internal/domain"
	"sweet-layers/internal/repository"
	"sweet-layers/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("connection refused")

// Mock repositories for testing
type mockProductRepository struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
	fail     bool
}

func (m *mockProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	product.ID = m.nextID
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, update *domain.ProductUpdate) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Images != nil {
		p.Images = update.Images
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	if update.Sizes != nil {
		p.Sizes = update.Sizes
	}
	if update.InStock != nil {
		p.InStock = *update.InStock
	}
	if update.Featured != nil {
		p.Featured = *update.Featured
	}
	if update.Rating != nil {
		p.Rating = *update.Rating
	}
	return p, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type mockOrderRepository struct {
	mu     sync.Mutex
	orders map[int64]*domain.Order
	nextID int64
	fail   bool
}

func (m *mockOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) Update(ctx context.Context, id int64, update *domain.OrderUpdate) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	return o, nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

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

type testServer struct {
	router   chi.Router
	products *mockProductRepository
	orders   *mockOrderRepository
	sessions *cart.Sessions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	products := &mockProductRepository{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Chocolate Dream", Description: "Rich chocolate layers", Price: decimal.RequireFromString("45.99"),
			Category: "Birthday", Sizes: []string{"6 inch", "8 inch"}, InStock: true, Featured: true, Rating: 4.8},
		2: {ID: 2, Name: "Elegant Rose", Description: "Three tiers with sugar roses", Price: decimal.RequireFromString("189.99"),
			Category: "Wedding", Sizes: []string{"3 tier"}, InStock: true, Rating: 4.9},
		3: {ID: 3, Name: "Rainbow Cupcakes", Description: "A dozen bright cupcakes", Price: decimal.RequireFromString("24.99"),
			Category: "Cupcakes", Sizes: []string{"dozen"}, InStock: true, Rating: 4.6},
	}, nextID: 3}
	orders := &mockOrderRepository{orders: map[int64]*domain.Order{}}

	storages := map[string]*memoryStorage{}
	var storagesMu sync.Mutex
	sessions := cart.NewSessions(func(sessionID string) cart.Storage {
		storagesMu.Lock()
		defer storagesMu.Unlock()
		if storages[sessionID] == nil {
			storages[sessionID] = &memoryStorage{}
		}
		return storages[sessionID]
	}, logger)

	catalog := service.NewCatalogService(products, logger)

	router := chi.NewRouter()
	NewCatalogHandler(catalog, logger).RegisterRoutes(router)
	NewCartHandler(sessions, catalog, logger).RegisterRoutes(router)
	NewCheckoutHandler(sessions, service.NewCheckoutService(orders, logger), logger).RegisterRoutes(router)
	NewOrderHandler(service.NewOrderService(orders, logger), logger).RegisterRoutes(router)

	return &testServer{router: router, products: products, orders: orders, sessions: sessions}
}

func (s *testServer) do(method, path, session string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Cart-Session", session)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Details struct {
			Retryable        bool `json:"retryable"`
			ValidationErrors []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"validation_errors"`
		} `json:"details"`
	} `json:"error"`
}

func (e errorBody) fields() []string {
	var out []string
	for _, fe := range e.Error.Details.ValidationErrors {
		out = append(out, fe.Field)
	}
	return out
}

func newJSONRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
