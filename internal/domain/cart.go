package domain

import "github.com/shopspring/decimal"

// Customizations is an open key/value bag attached to a cart line.
// Nothing populates it yet; it is persisted as-is.
type Customizations map[string]string

// CartLine is one distinct (product, size) pairing in a cart.
// Product is a snapshot taken when the line was first added and is never
// refreshed, so its price may lag behind the catalog.
type CartLine struct {
	ProductID      int64          `json:"product_id"`
	Product        Product        `json:"product"`
	Size           string         `json:"size"`
	Quantity       int            `json:"quantity"`
	Customizations Customizations `json:"customizations"`
}

// Matches reports whether the line belongs to the (productID, size) pair.
func (l *CartLine) Matches(productID int64, size string) bool {
	return l.ProductID == productID && l.Size == size
}

// LineTotal returns the snapshot unit price times quantity.
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
