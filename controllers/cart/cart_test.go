package cartControllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

func seedCartProduct(t *testing.T, s store.Store) models.Product {
	t.Helper()
	product := models.Product{
		ID:           "p1",
		SellerID:     "seller-1",
		Name:         "Lettuce",
		Price:        35.75,
		Stock:        40,
		ProductImage: "/uploads/products/lettuce.jpg",
	}
	require.NoError(t, s.Set(context.Background(), models.ProductsCollection, product.ID, product))
	return product
}

func TestUpsertCartItemCreates(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedCartProduct(t, s)

	item, err := UpsertCartItem(ctx, s, "u1", product.ID, 2)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "Lettuce", item.Name)
	assert.Equal(t, 35.75, item.Price)
	assert.Equal(t, product.ProductImage, item.Image)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 71.50, item.Subtotal)

	var stored models.CartItem
	require.NoError(t, s.Get(ctx, models.CartItemsCollection("u1"), item.ID, &stored))
	assert.Equal(t, item.Subtotal, stored.Subtotal)
}

func TestUpsertCartItemUpdatesQuantityAndSubtotal(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedCartProduct(t, s)

	first, err := UpsertCartItem(ctx, s, "u1", product.ID, 2)
	require.NoError(t, err)

	second, err := UpsertCartItem(ctx, s, "u1", product.ID, 5)
	require.NoError(t, err)

	// Same cart line, new quantity, subtotal recomputed from it.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, 178.75, second.Subtotal)

	var items []models.CartItem
	require.NoError(t, s.Query(ctx, models.CartItemsCollection("u1"), nil, &items))
	assert.Len(t, items, 1)
}

func TestUpsertCartItemMissingProduct(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := UpsertCartItem(ctx, s, "u1", "ghost", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCartsAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedCartProduct(t, s)

	_, err := UpsertCartItem(ctx, s, "u1", product.ID, 1)
	require.NoError(t, err)
	_, err = UpsertCartItem(ctx, s, "u2", product.ID, 3)
	require.NoError(t, err)

	var u1Items, u2Items []models.CartItem
	require.NoError(t, s.Query(ctx, models.CartItemsCollection("u1"), nil, &u1Items))
	require.NoError(t, s.Query(ctx, models.CartItemsCollection("u2"), nil, &u2Items))
	require.Len(t, u1Items, 1)
	require.Len(t, u2Items, 1)
	assert.Equal(t, 1, u1Items[0].Quantity)
	assert.Equal(t, 3, u2Items[0].Quantity)
}

func TestSubtotalOfRoundsToCents(t *testing.T) {
	assert.Equal(t, 107.25, subtotalOf(35.75, 3))
	assert.Equal(t, 99.99, subtotalOf(33.33, 3))
	assert.Equal(t, 0.3, subtotalOf(0.1, 3))
}
