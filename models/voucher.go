package models

import "time"

// VouchersCollection keeps the original collection name (singular).
const VouchersCollection = "voucher"

// Voucher scopes: what the discount applies to.
const (
	VoucherScopeDelivery = "delivery"
	VoucherScopeSubtotal = "subtotal"
)

// Discount types.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

type Discount struct {
	Type     string  `json:"type"` // "percentage" | "fixed"
	Amount   float64 `json:"amount"`
	MinSpend float64 `json:"min_spend"`
}

// Voucher is read-only to the commerce engine; vouchers are created
// out-of-band through the admin endpoints.
type Voucher struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Scope      string    `json:"type"` // "delivery" | "subtotal"
	Discount   Discount  `json:"discount"`
	ExpiryDate time.Time `json:"expiry_date"`
}
