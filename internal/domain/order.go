package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. The set is open-ended; these are the ones the storefront writes.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
)

// OrderItem is a denormalized copy of a cart line at checkout
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
}

// DeliveryInfo holds where and when an order should be delivered
type DeliveryInfo struct {
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	City                string `json:"city"`
	State               string `json:"state"`
	ZipCode             string `json:"zip_code"`
	DeliveryDate        string `json:"delivery_date"`
	DeliveryTime        string `json:"delivery_time"`
	SpecialInstructions string `json:"special_instructions"`
}

// Order represents a placed order
type Order struct {
	ID           int64           `json:"id" db:"id"`
	Items        []OrderItem     `json:"items" db:"items"`
	Total        decimal.Decimal `json:"total" db:"total"`
	DeliveryInfo DeliveryInfo    `json:"delivery_info"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// DeliveryInfoUpdate is a partial delivery info update
type DeliveryInfoUpdate struct {
	FirstName           *string `json:"first_name,omitempty" validate:"omitnil,max=100"`
	LastName            *string `json:"last_name,omitempty" validate:"omitnil,max=100"`
	Email               *string `json:"email,omitempty" validate:"omitnil,max=255"`
	Phone               *string `json:"phone,omitempty" validate:"omitnil,max=32"`
	Address             *string `json:"address,omitempty"`
	City                *string `json:"city,omitempty" validate:"omitnil,max=100"`
	State               *string `json:"state,omitempty" validate:"omitnil,max=100"`
	ZipCode             *string `json:"zip_code,omitempty" validate:"omitnil,max=20"`
	DeliveryDate        *string `json:"delivery_date,omitempty" validate:"omitnil,max=32"`
	DeliveryTime        *string `json:"delivery_time,omitempty" validate:"omitnil,max=32"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

// OrderUpdate is a partial order update. Nil fields are left untouched.
type OrderUpdate struct {
	Items        []OrderItem         `json:"items,omitempty"`
	Total        *decimal.Decimal    `json:"total,omitempty"`
	Status       *string             `json:"status,omitempty" validate:"omitnil,required_trimmed,max=50"`
	DeliveryInfo *DeliveryInfoUpdate `json:"delivery_info,omitempty"`
}

// CheckoutForm is the raw checkout input. Payment fields are only checked for
// presence and never leave the process.
type CheckoutForm struct {
	FirstName           string `json:"first_name" validate:"required_trimmed,max=100"`
	LastName            string `json:"last_name" validate:"required_trimmed,max=100"`
	Email               string `json:"email" validate:"required_trimmed,storefront_email,max=255"`
	Phone               string `json:"phone" validate:"required_trimmed,storefront_phone,max=32"`
	Address             string `json:"address" validate:"required_trimmed"`
	City                string `json:"city" validate:"required_trimmed,max=100"`
	State               string `json:"state" validate:"required_trimmed,max=100"`
	ZipCode             string `json:"zip_code" validate:"required_trimmed,max=20"`
	DeliveryDate        string `json:"delivery_date" validate:"required_trimmed,max=32"`
	DeliveryTime        string `json:"delivery_time" validate:"max=32"`
	SpecialInstructions string `json:"special_instructions"`
	CardNumber          string `json:"card_number" validate:"required_trimmed"`
	ExpiryDate          string `json:"expiry_date" validate:"required_trimmed"`
	CVV                 string `json:"cvv" validate:"required_trimmed"`
	CardName            string `json:"card_name" validate:"required_trimmed"`
}

// DeliveryInfo extracts the delivery part of the form
func (f *CheckoutForm) DeliveryInfo() DeliveryInfo {
	return DeliveryInfo{
		FirstName:           f.FirstName,
		LastName:            f.LastName,
		Email:               f.Email,
		Phone:               f.Phone,
		Address:             f.Address,
		City:                f.City,
		State:               f.State,
		ZipCode:             f.ZipCode,
		DeliveryDate:        f.DeliveryDate,
		DeliveryTime:        f.DeliveryTime,
		SpecialInstructions: f.SpecialInstructions,
	}
}
