package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"sweet-layers/internal/domain"
	"sweet-layers/internal/metrics"
	"sweet-layers/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CategoryAll is the category selection that disables the category filter
const CategoryAll = "all"

// Catalog sort orders
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// CatalogQuery composes the browse filters. Zero values disable a filter.
type CatalogQuery struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// Listing is a product list. Unavailable is set when the store could not be
// reached and Products is empty as a result.
type Listing struct {
	Products    []*domain.Product `json:"products"`
	Unavailable bool              `json:"unavailable,omitempty"`
}

// CatalogService defines the catalog query facade
type CatalogService interface {
	Browse(ctx context.Context, query CatalogQuery) Listing
	Search(ctx context.Context, term string) Listing
	ByCategory(ctx context.Context, category string) Listing
	Featured(ctx context.Context) Listing
	Categories(ctx context.Context) ([]domain.CategoryCount, bool)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, id int64, update *domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		products: products,
		logger:   logger,
	}
}

// fetchAll never fails: a store error degrades to an empty, unavailable listing
func (s *catalogService) fetchAll(ctx context.Context) Listing {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch products, returning empty catalog", zap.Error(err))
		metrics.CatalogFetchFailures.Inc()
		return Listing{Products: []*domain.Product{}, Unavailable: true}
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return Listing{Products: products}
}

// Browse applies the category, search and price filters and the sort order
// to the full catalog.
func (s *catalogService) Browse(ctx context.Context, query CatalogQuery) Listing {
	listing := s.fetchAll(ctx)
	listing.Products = Filter(listing.Products, query)
	return listing
}

// Search matches term against name, description and category
func (s *catalogService) Search(ctx context.Context, term string) Listing {
	listing := s.fetchAll(ctx)

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return listing
	}

	matched := make([]*domain.Product, 0, len(listing.Products))
	for _, p := range listing.Products {
		if containsFold(p.Name, term) || containsFold(p.Description, term) || containsFold(p.Category, term) {
			matched = append(matched, p)
		}
	}
	listing.Products = matched
	return listing
}

// ByCategory returns products whose category equals category, ignoring case
func (s *catalogService) ByCategory(ctx context.Context, category string) Listing {
	listing := s.fetchAll(ctx)

	matched := make([]*domain.Product, 0, len(listing.Products))
	for _, p := range listing.Products {
		if strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}
	listing.Products = matched
	return listing
}

func (s *catalogService) Featured(ctx context.Context) Listing {
	listing := s.fetchAll(ctx)

	featured := make([]*domain.Product, 0, len(listing.Products))
	for _, p := range listing.Products {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	listing.Products = featured
	return listing
}

// Categories counts products per storefront category. The bool reports
// whether the catalog was unavailable.
func (s *catalogService) Categories(ctx context.Context) ([]domain.CategoryCount, bool) {
	listing := s.fetchAll(ctx)

	counts := make([]domain.CategoryCount, 0, len(domain.Categories))
	for _, name := range domain.Categories {
		count := 0
		for _, p := range listing.Products {
			if p.Category == name {
				count++
			}
		}
		counts = append(counts, domain.CategoryCount{Name: name, Count: count})
	}
	return counts, listing.Unavailable
}

func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.Images == nil {
		product.Images = []string{}
	}
	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("category", product.Category),
	)
	return nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, update *domain.ProductUpdate) (*domain.Product, error) {
	product, err := s.products.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

// Filter applies query to products and returns a new, sorted slice.
// The input slice is not modified.
func Filter(products []*domain.Product, query CatalogQuery) []*domain.Product {
	search := strings.ToLower(strings.TrimSpace(query.Search))

	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if query.Category != "" && query.Category != CategoryAll && p.Category != query.Category {
			continue
		}
		if search != "" && !containsFold(p.Name, search) && !containsFold(p.Description, search) {
			continue
		}
		if query.MinPrice != nil && p.Price.LessThan(*query.MinPrice) {
			continue
		}
		if query.MaxPrice != nil && p.Price.GreaterThan(*query.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, comparator(query.Sort))
	return out
}

// IsValidSort reports whether sort names a known order. Empty selects name.
func IsValidSort(sort string) bool {
	switch sort {
	case "", SortName, SortPriceLow, SortPriceHigh, SortRating:
		return true
	}
	return false
}

func comparator(sort string) func(a, b *domain.Product) int {
	switch sort {
	case SortPriceLow:
		return func(a, b *domain.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		return func(a, b *domain.Product) int { return b.Price.Cmp(a.Price) }
	case SortRating:
		return func(a, b *domain.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		}
	default:
		return func(a, b *domain.Product) int { return strings.Compare(a.Name, b.Name) }
	}
}

// containsFold reports whether s contains the lower-cased term, ignoring case
func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), term)
}
