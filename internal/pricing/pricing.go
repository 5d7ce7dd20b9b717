package pricing

import (
	"sweet-layers/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	// FreeShippingThreshold is exclusive: a subtotal of exactly 50 still pays shipping.
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShipping          = decimal.NewFromInt(10)
	TaxRate               = decimal.RequireFromString("0.08")
)

// moneyPlaces is the precision of persisted money values
const moneyPlaces = 2

// Summary is the price breakdown of a cart
type Summary struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
}

// Quote derives shipping, tax and total from a subtotal
func Quote(subtotal decimal.Decimal) Summary {
	shipping := FlatShipping
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate).Round(moneyPlaces)

	return Summary{
		Subtotal:              subtotal,
		Shipping:              shipping,
		Tax:                   tax,
		Total:                 subtotal.Add(shipping).Add(tax),
		FreeShippingThreshold: FreeShippingThreshold,
	}
}

// Subtotal sums snapshot price times quantity over lines
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for i := range lines {
		subtotal = subtotal.Add(lines[i].LineTotal())
	}
	return subtotal
}

// ItemsSubtotal sums unit price times quantity over order items
func ItemsSubtotal(items []domain.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// ComposeOrder builds the order payload for a checkout. Items keep the cart
// order and carry the unit price, not the line total.
func ComposeOrder(lines []domain.CartLine, form *domain.CheckoutForm) *domain.Order {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Size:        line.Size,
			Price:       line.Product.Price,
		})
	}

	return &domain.Order{
		Items:        items,
		Total:        Quote(Subtotal(lines)).Total,
		DeliveryInfo: form.DeliveryInfo(),
		Status:       domain.OrderStatusConfirmed,
	}
}
