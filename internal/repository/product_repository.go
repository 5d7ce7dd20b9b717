package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sweet-layers/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

const productColumns = `id, name, description, price, images, category, sizes, in_stock, featured, rating, created_at, updated_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id int64, update *domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	db      *sql.DB
	typeMap *pgtype.Map
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db, typeMap: pgtype.NewMap()}
}

// FindAll retrieves every product, newest first
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Create inserts a product and fills in its assigned ID and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, images, category, sizes, in_stock, featured, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		nonNil(product.Images),
		product.Category,
		nonNil(product.Sizes),
		product.InStock,
		product.Featured,
		product.Rating,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update merges the non-nil fields of update into the stored product
func (r *productRepository) Update(ctx context.Context, id int64, update *domain.ProductUpdate) (*domain.Product, error) {
	if update == nil || update.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	set := newSetClause()
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Description != nil {
		set.add("description", *update.Description)
	}
	if update.Price != nil {
		set.add("price", *update.Price)
	}
	if update.Images != nil {
		set.add("images", update.Images)
	}
	if update.Category != nil {
		set.add("category", *update.Category)
	}
	if update.Sizes != nil {
		set.add("sizes", update.Sizes)
	}
	if update.InStock != nil {
		set.add("in_stock", *update.InStock)
	}
	if update.Featured != nil {
		set.add("featured", *update.Featured)
	}
	if update.Rating != nil {
		set.add("rating", *update.Rating)
	}

	query := fmt.Sprintf(`
		UPDATE products
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING %s
	`, set.String(), set.next(), productColumns)

	product, err := r.scan(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *productRepository) scan(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		r.typeMap.SQLScanner(&product.Images),
		&product.Category,
		r.typeMap.SQLScanner(&product.Sizes),
		&product.InStock,
		&product.Featured,
		&product.Rating,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// setClause accumulates "column = $n" assignments for partial updates
type setClause struct {
	columns []string
	args    []interface{}
}

func newSetClause() *setClause {
	return &setClause{}
}

func (s *setClause) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.columns = append(s.columns, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) next() int {
	return len(s.args) + 1
}

func (s *setClause) String() string {
	return strings.Join(s.columns, ", ")
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
