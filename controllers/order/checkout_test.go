package orderControllers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

func seedCheckout(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, models.UsersCollection, buyerID, models.User{
		ID:        buyerID,
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Reyes",
	}))
	require.NoError(t, s.Set(ctx, models.ProductsCollection, "p1", models.Product{
		ID:           "p1",
		SellerID:     sellerID,
		Name:         "Carrots",
		Price:        50,
		Stock:        10,
		ProductImage: "/uploads/products/carrots.jpg",
	}))
	require.NoError(t, s.Set(ctx, models.StoreDetailsCollection(sellerID), sellerID, models.StoreProfile{
		SellerID:             sellerID,
		StoreName:            "Reyes Farm",
		DefaultPickupAddress: "123 Farm Road",
	}))
}

func TestPlaceOrderHappyPath(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)

	order, err := PlaceOrder(ctx, s, PlaceOrderRequest{
		BuyerID:       buyerID,
		ProductID:     "p1",
		Quantity:      4,
		PaymentMethod: "cod",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.ID, buyerID+"_"))
	assert.Equal(t, buyerID, order.UserID)
	assert.Equal(t, "AnaReyes", order.UserName)
	assert.Equal(t, "ana@example.com", order.UserEmail)
	assert.Equal(t, "Carrots", order.ProductName)
	assert.Equal(t, 50.0, order.ProductPrice)
	assert.Equal(t, sellerID, order.StoreID)
	assert.Equal(t, "Reyes Farm", order.StoreName)
	assert.Equal(t, "123 Farm Road", order.StoreAddress)
	assert.Equal(t, 4, order.Quantity)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 100.0, order.DeliveryFee)
	assert.Equal(t, 300.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.WithinDuration(t, time.Now(), order.OrderDate, 5*time.Second)

	// Persisted record matches what was returned.
	var stored models.Order
	require.NoError(t, s.Get(ctx, models.OrdersCollection, order.ID, &stored))
	assert.Equal(t, order.ID, stored.ID)
	assert.Equal(t, order.TotalAmount, stored.TotalAmount)
	assert.Equal(t, order.Status, stored.Status)
	assert.True(t, order.OrderDate.Equal(stored.OrderDate))

	// Stock was reserved in the same transaction.
	var product models.Product
	require.NoError(t, s.Get(ctx, models.ProductsCollection, "p1", &product))
	assert.Equal(t, 6, product.Stock)
}

func TestPlaceOrderSellerAddressMissing(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)
	require.NoError(t, s.Set(ctx, models.StoreDetailsCollection(sellerID), sellerID, models.StoreProfile{
		SellerID:  sellerID,
		StoreName: "Reyes Farm",
	}))

	_, err := PlaceOrder(ctx, s, PlaceOrderRequest{BuyerID: buyerID, ProductID: "p1", Quantity: 1})
	assert.ErrorIs(t, err, ErrSellerAddressMissing)

	// No store profile document at all reads the same way.
	require.NoError(t, s.Delete(ctx, models.StoreDetailsCollection(sellerID), sellerID))
	_, err = PlaceOrder(ctx, s, PlaceOrderRequest{BuyerID: buyerID, ProductID: "p1", Quantity: 1})
	assert.ErrorIs(t, err, ErrSellerAddressMissing)

	// Nothing was written.
	var orders []models.Order
	require.NoError(t, s.Query(ctx, models.OrdersCollection, nil, &orders))
	assert.Empty(t, orders)
}

func TestPlaceOrderMissingProduct(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)

	_, err := PlaceOrder(ctx, s, PlaceOrderRequest{BuyerID: buyerID, ProductID: "ghost", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)

	_, err := PlaceOrder(ctx, s, PlaceOrderRequest{BuyerID: buyerID, ProductID: "p1", Quantity: 11})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The failed reservation must not touch the stock.
	var product models.Product
	require.NoError(t, s.Get(ctx, models.ProductsCollection, "p1", &product))
	assert.Equal(t, 10, product.Stock)
}

func TestPlaceOrderWithVoucher(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)
	require.NoError(t, s.Set(ctx, models.VouchersCollection, "v1", models.Voucher{
		ID:    "v1",
		Name:  "HARVEST10",
		Scope: models.VoucherScopeSubtotal,
		Discount: models.Discount{
			Type:   models.DiscountTypePercentage,
			Amount: 10,
		},
		ExpiryDate: time.Now().Add(24 * time.Hour),
	}))

	order, err := PlaceOrder(ctx, s, PlaceOrderRequest{
		BuyerID:   buyerID,
		ProductID: "p1",
		Quantity:  4,
		VoucherID: "v1",
	})
	require.NoError(t, err)

	assert.Equal(t, "HARVEST10", order.VoucherApplied)
	assert.Equal(t, "v1", order.VoucherID)
	assert.Equal(t, 20.0, order.VoucherDiscount)
	assert.Equal(t, 180.0, order.Subtotal)
	assert.Equal(t, 280.0, order.TotalAmount)
}

func TestPlaceOrderExpiredVoucherFails(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)
	require.NoError(t, s.Set(ctx, models.VouchersCollection, "v1", models.Voucher{
		ID:         "v1",
		Name:       "OLD",
		Scope:      models.VoucherScopeSubtotal,
		Discount:   models.Discount{Type: models.DiscountTypePercentage, Amount: 10},
		ExpiryDate: time.Now().Add(-time.Hour),
	}))

	_, err := PlaceOrder(ctx, s, PlaceOrderRequest{
		BuyerID:   buyerID,
		ProductID: "p1",
		Quantity:  4,
		VoucherID: "v1",
	})
	require.Error(t, err)

	var orders []models.Order
	require.NoError(t, s.Query(ctx, models.OrdersCollection, nil, &orders))
	assert.Empty(t, orders)
}

func TestPlaceOrderConsumesCartItem(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)

	cart := models.CartItemsCollection(buyerID)
	require.NoError(t, s.Set(ctx, cart, "ci1", models.CartItem{
		ID: "ci1", ProductID: "p1", Quantity: 4, Price: 50, Subtotal: 200,
	}))

	_, err := PlaceOrder(ctx, s, PlaceOrderRequest{
		BuyerID:    buyerID,
		ProductID:  "p1",
		Quantity:   4,
		CartItemID: "ci1",
	})
	require.NoError(t, err)

	var item models.CartItem
	assert.ErrorIs(t, s.Get(ctx, cart, "ci1", &item), store.ErrNotFound)
}

func TestPlaceOrderRaceForLastUnits(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedCheckout(t, s)

	// 10 units in stock, buyers want 7 each: exactly one can win.
	won, lost := 0, 0
	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("racer-%d", i)
		require.NoError(t, s.Set(ctx, models.UsersCollection, id, models.User{ID: id, FirstName: "R"}))
		_, err := PlaceOrder(ctx, s, PlaceOrderRequest{BuyerID: id, ProductID: "p1", Quantity: 7})
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	var product models.Product
	require.NoError(t, s.Get(ctx, models.ProductsCollection, "p1", &product))
	assert.Equal(t, 3, product.Stock)
}
