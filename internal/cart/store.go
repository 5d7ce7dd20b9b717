package cart

import (
	"context"
	"sync"
	"time"

	"sweet-layers/internal/domain"
	"sweet-layers/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultSaveTimeout = 500 * time.Millisecond

// Store owns one cart. Every mutation rewrites the whole snapshot to its
// Storage; a failed write is logged and the in-memory lines stay authoritative.
type Store struct {
	mu          sync.Mutex
	lines       []domain.CartLine
	storage     Storage
	logger      *zap.Logger
	saveTimeout time.Duration
}

// Option configures a Store
type Option func(*Store)

// WithSaveTimeout bounds each snapshot write
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// NewStore creates a store and hydrates it once from storage. Read failures
// are logged and leave the cart empty.
func NewStore(ctx context.Context, storage Storage, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		lines:       []domain.CartLine{},
		storage:     storage,
		logger:      logger,
		saveTimeout: defaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	lines, err := storage.Load(ctx)
	if err != nil {
		metrics.CartSnapshotFailures.WithLabelValues("load").Inc()
		logger.Warn("Failed to load cart snapshot, starting with an empty cart", zap.Error(err))
		return s
	}

	// Snapshots written elsewhere may repeat a (product, size) pair; those
	// lines are merged into the first one as Add would have done.
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if i := s.indexOf(line.ProductID, line.Size); i >= 0 {
			s.lines[i].Quantity += line.Quantity
			continue
		}
		if line.Customizations == nil {
			line.Customizations = domain.Customizations{}
		}
		s.lines = append(s.lines, line)
	}

	return s
}

// Add puts quantity units of product in the given size into the cart. An
// existing (product, size) line is incremented; otherwise a new line with a
// snapshot of product is appended. Quantities below one are raised to one.
// The size is stored as given.
func (s *Store) Add(ctx context.Context, product *domain.Product, quantity int, size string) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID, size); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID:      product.ID,
			Product:        snapshot(product),
			Size:           size,
			Quantity:       quantity,
			Customizations: domain.Customizations{},
		})
	}

	s.persist(ctx, "add")
}

// Remove drops the (productID, size) line. Absent lines are ignored.
func (s *Store) Remove(ctx context.Context, productID int64, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(productID, size)
	s.persist(ctx, "remove")
}

// UpdateQuantity sets the (productID, size) line to exactly quantity.
// Non-positive quantities remove the line; absent lines are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, size string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(productID, size)
		s.persist(ctx, "remove")
		return
	}

	if i := s.indexOf(productID, size); i >= 0 {
		s.lines[i].Quantity = quantity
	}
	s.persist(ctx, "update")
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []domain.CartLine{}
	s.persist(ctx, "clear")
}

// Settle takes the submitted lines out of the cart once their order exists.
// Each matching line loses the submitted quantity and is dropped at zero, so
// units added while the order was being stored stay in the cart.
func (s *Store) Settle(ctx context.Context, submitted []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range submitted {
		i := s.indexOf(line.ProductID, line.Size)
		if i < 0 {
			continue
		}
		s.lines[i].Quantity -= line.Quantity
		if s.lines[i].Quantity <= 0 {
			s.remove(line.ProductID, line.Size)
		}
	}
	s.persist(ctx, "settle")
}

// Items returns a copy of the cart lines in insertion order
func (s *Store) Items() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.CartLine, len(s.lines))
	for i, line := range s.lines {
		items[i] = copyLine(line)
	}
	return items
}

// TotalItems returns the sum of line quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice returns the subtotal using the snapshot prices
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// ItemCount returns the quantity of the (productID, size) line, or 0
func (s *Store) ItemCount(productID int64, size string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID, size); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines) == 0
}

func (s *Store) indexOf(productID int64, size string) int {
	for i := range s.lines {
		if s.lines[i].Matches(productID, size) {
			return i
		}
	}
	return -1
}

func (s *Store) remove(productID int64, size string) {
	kept := s.lines[:0]
	for _, line := range s.lines {
		if !line.Matches(productID, size) {
			kept = append(kept, line)
		}
	}
	s.lines = kept
}

// persist must be called with mu held so snapshots are written in mutation order.
func (s *Store) persist(ctx context.Context, operation string) {
	metrics.CartMutations.WithLabelValues(operation).Inc()

	// The write outlives a cancelled request; only the timeout bounds it.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)

	if err := s.storage.Save(saveCtx, lines); err != nil {
		metrics.CartSnapshotFailures.WithLabelValues("save").Inc()
		s.logger.Error("Failed to save cart snapshot",
			zap.String("operation", operation),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
	}
}

func snapshot(p *domain.Product) domain.Product {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.Sizes = append([]string(nil), p.Sizes...)
	return c
}

func copyLine(line domain.CartLine) domain.CartLine {
	line.Product = snapshot(&line.Product)
	customizations := make(domain.Customizations, len(line.Customizations))
	for k, v := range line.Customizations {
		customizations[k] = v
	}
	line.Customizations = customizations
	return line
}
