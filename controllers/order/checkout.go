package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/pricing"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

var (
	// ErrSellerAddressMissing: the seller has no default pickup address,
	// so the order cannot be routed.
	ErrSellerAddressMissing = errors.New("orders: seller pickup address missing")
	// ErrInsufficientStock: the stock reservation inside the checkout
	// transaction found fewer units than requested.
	ErrInsufficientStock = errors.New("orders: insufficient stock")
	// ErrProductNotFound: the product disappeared mid-checkout.
	ErrProductNotFound = errors.New("orders: product not found")
)

// PlaceOrderRequest is the checkout input. CartItemID is set when the
// purchase originated from a cart item, which is then consumed atomically
// with the order create.
type PlaceOrderRequest struct {
	BuyerID       string
	ProductID     string
	Quantity      int
	VoucherID     string
	CartItemID    string
	PaymentMethod string
}

// PlaceOrder prices the purchase and writes the immutable order record.
//
// The order id doubles as an idempotency key ({buyer}_{unix_millis}).
// Stock is reserved inside the same transaction that creates the order:
// the product is re-read, checked, and decremented, so two buyers racing
// for the last unit cannot both succeed.
func PlaceOrder(ctx context.Context, s store.Store, req PlaceOrderRequest) (*models.Order, error) {
	var buyer models.User
	if err := s.Get(ctx, models.UsersCollection, req.BuyerID, &buyer); err != nil {
		return nil, fmt.Errorf("orders: buyer profile: %w", err)
	}

	var product models.Product
	if err := s.Get(ctx, models.ProductsCollection, req.ProductID, &product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var profile models.StoreProfile
	err := s.Get(ctx, models.StoreDetailsCollection(product.SellerID), product.SellerID, &profile)
	if errors.Is(err, store.ErrNotFound) || (err == nil && profile.DefaultPickupAddress == "") {
		return nil, ErrSellerAddressMissing
	}
	if err != nil {
		return nil, err
	}

	var voucher *models.Voucher
	if req.VoucherID != "" {
		var v models.Voucher
		if err := s.Get(ctx, models.VouchersCollection, req.VoucherID, &v); err != nil {
			return nil, fmt.Errorf("orders: voucher: %w", err)
		}
		voucher = &v
	}

	price, err := pricing.ComputePrice(product, req.Quantity, voucher)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := models.Order{
		ID:              fmt.Sprintf("%s_%d", req.BuyerID, now.UnixMilli()),
		UserID:          req.BuyerID,
		UserName:        buyer.DisplayName(),
		UserEmail:       buyer.Email,
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductPrice:    product.Price,
		ProductImage:    product.ProductImage,
		StoreID:         product.SellerID,
		StoreName:       profile.StoreName,
		StoreAddress:    profile.DefaultPickupAddress,
		Quantity:        req.Quantity,
		Subtotal:        pricing.Round2(price.Subtotal),
		DeliveryFee:     pricing.Round2(price.DeliveryFee),
		TotalAmount:     pricing.Round2(price.Total),
		VoucherDiscount: pricing.Round2(price.DiscountAmount),
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		OrderDate:       now,
	}
	if price.VoucherApplied {
		order.VoucherApplied = voucher.Name
		order.VoucherID = voucher.ID
	}

	err = s.RunTransaction(ctx, func(tx store.Tx) error {
		var fresh models.Product
		if err := tx.Get(models.ProductsCollection, req.ProductID, &fresh); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if fresh.Stock < req.Quantity {
			return ErrInsufficientStock
		}
		fresh.Stock -= req.Quantity
		tx.Set(models.ProductsCollection, req.ProductID, fresh)

		tx.Create(models.OrdersCollection, order.ID, order)

		if req.CartItemID != "" {
			tx.Delete(models.CartItemsCollection(req.BuyerID), req.CartItemID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
