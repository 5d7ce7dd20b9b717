package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bakery catalog categories shown on the storefront.
var Categories = []string{"Birthday", "Wedding", "Custom", "Cupcakes"}

// Product represents a cake in the catalog
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Images      []string        `json:"images" db:"images"`
	Category    string          `json:"category" db:"category"`
	Sizes       []string        `json:"sizes" db:"sizes"`
	InStock     bool            `json:"in_stock" db:"in_stock"`
	Featured    bool            `json:"featured" db:"featured"`
	Rating      float64         `json:"rating" db:"rating"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// HasSize reports whether size is one of the product's declared variants.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// ProductUpdate is a partial product update. Nil fields are left untouched;
// present fields follow the same rules as a new product.
type ProductUpdate struct {
	Name        *string          `json:"name,omitempty" validate:"omitnil,required_trimmed,max=255"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Category    *string          `json:"category,omitempty" validate:"omitnil,required_trimmed,max=100"`
	Sizes       []string         `json:"sizes,omitempty" validate:"omitnil,min=1,dive,required_trimmed"`
	InStock     *bool            `json:"in_stock,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
	Rating      *float64         `json:"rating,omitempty" validate:"omitnil,gte=0,lte=5"`
}

// IsEmpty reports whether the update carries no fields.
func (u *ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Images == nil &&
		u.Category == nil && u.Sizes == nil && u.InStock == nil && u.Featured == nil && u.Rating == nil
}

// CategoryCount is a category name with the number of products in it
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
