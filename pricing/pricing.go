// Package pricing computes order pricing: subtotal, delivery fee, voucher
// discount and total. Pure computation, no hidden state: identical inputs
// (at a fixed evaluation time) always produce identical results.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
)

// DeliveryFee is the flat per-order delivery fee, before any voucher.
var DeliveryFee = decimal.NewFromInt(100)

var (
	ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")
	ErrInvalidPrice    = errors.New("pricing: product price must not be negative")
	ErrVoucherExpired  = errors.New("pricing: voucher has expired")
	ErrMinSpendNotMet  = errors.New("pricing: minimum spend not met")
	ErrInvalidScope    = errors.New("pricing: unknown voucher scope")
)

// Result carries exact amounts; round only when presenting or persisting.
type Result struct {
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	VoucherApplied bool
}

// ComputePrice prices quantity units of product with an optional voucher,
// evaluated against the current clock.
func ComputePrice(product models.Product, quantity int, voucher *models.Voucher) (Result, error) {
	return ComputePriceAt(product, quantity, voucher, time.Now())
}

// ComputePriceAt is ComputePrice with a pinned evaluation time.
//
// When the voucher is ineligible (expired, below minimum spend, unknown
// scope) the undiscounted base price is returned together with the typed
// reason, so callers can keep the base figures on screen.
func ComputePriceAt(product models.Product, quantity int, voucher *models.Voucher, now time.Time) (Result, error) {
	if quantity < 1 {
		return Result{}, ErrInvalidQuantity
	}
	if product.Price < 0 {
		return Result{}, ErrInvalidPrice
	}

	subtotal := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(quantity)))
	base := Result{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Total:       subtotal.Add(DeliveryFee),
	}
	if voucher == nil {
		return base, nil
	}

	// Eligibility, checked in order: expiry first, then minimum spend.
	if !now.Before(voucher.ExpiryDate) {
		return base, ErrVoucherExpired
	}
	minSpend := decimal.NewFromFloat(voucher.Discount.MinSpend)
	if subtotal.LessThan(minSpend) {
		return base, ErrMinSpendNotMet
	}

	switch voucher.Scope {
	case models.VoucherScopeDelivery:
		// Delivery discount can never exceed the fee itself.
		discount := decimal.Min(discountOf(DeliveryFee, voucher.Discount), DeliveryFee)
		fee := decimal.Max(DeliveryFee.Sub(discount), decimal.Zero)
		return Result{
			Subtotal:       subtotal,
			DeliveryFee:    fee,
			DiscountAmount: discount,
			Total:          subtotal.Add(fee),
			VoucherApplied: true,
		}, nil
	case models.VoucherScopeSubtotal:
		discount := discountOf(subtotal, voucher.Discount)
		// Clamped at zero: a discount over 100% must not drive the total negative.
		discounted := decimal.Max(subtotal.Sub(discount), decimal.Zero)
		return Result{
			Subtotal:       discounted,
			DeliveryFee:    DeliveryFee,
			DiscountAmount: discount,
			Total:          discounted.Add(DeliveryFee),
			VoucherApplied: true,
		}, nil
	default:
		return base, ErrInvalidScope
	}
}

// discountOf resolves a percentage-or-fixed discount against a base amount.
func discountOf(base decimal.Decimal, d models.Discount) decimal.Decimal {
	if d.Type == models.DiscountTypePercentage {
		return base.Mul(decimal.NewFromFloat(d.Amount)).Div(decimal.NewFromInt(100))
	}
	return decimal.NewFromFloat(d.Amount)
}

// Round2 converts an exact amount to the 2dp figure persisted on orders
// and shown to users.
func Round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
