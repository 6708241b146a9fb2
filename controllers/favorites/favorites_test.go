package favoriteControllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

func seedProduct(t *testing.T, s store.Store, likes int) models.Product {
	t.Helper()
	product := models.Product{
		ID:          "p1",
		SellerID:    "seller-1",
		Name:        "Carrots",
		Category:    "Vegetables",
		Price:       45.50,
		Stock:       20,
		LikesCount:  likes,
		Description: "Fresh from the farm",
	}
	require.NoError(t, s.Set(context.Background(), models.ProductsCollection, product.ID, product))
	return product
}

func likesCount(t *testing.T, s store.Store, productID string) int {
	t.Helper()
	var product models.Product
	require.NoError(t, s.Get(context.Background(), models.ProductsCollection, productID, &product))
	return product.LikesCount
}

func TestToggleFavoriteLike(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedProduct(t, s, 3)

	nowFavourite, err := ToggleFavorite(ctx, s, "u1", product, false)
	require.NoError(t, err)
	assert.True(t, nowFavourite)
	assert.Equal(t, 4, likesCount(t, s, product.ID))

	// The favorite is a snapshot of the product at like-time.
	var fav models.Favorite
	require.NoError(t, s.Get(ctx, models.LikedProductsCollection("u1"), product.ID, &fav))
	assert.Equal(t, product.Name, fav.Name)
	assert.Equal(t, product.Price, fav.Price)
	assert.Equal(t, "Vegetables", fav.Category)
	assert.NotEmpty(t, fav.LikedAt)
}

func TestToggleFavoriteUnlike(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedProduct(t, s, 3)

	_, err := ToggleFavorite(ctx, s, "u1", product, false)
	require.NoError(t, err)
	require.Equal(t, 4, likesCount(t, s, product.ID))

	nowFavourite, err := ToggleFavorite(ctx, s, "u1", product, true)
	require.NoError(t, err)
	assert.False(t, nowFavourite)
	assert.Equal(t, 3, likesCount(t, s, product.ID))

	var fav models.Favorite
	err = s.Get(ctx, models.LikedProductsCollection("u1"), product.ID, &fav)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleFavoriteBlankCategory(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := models.Product{ID: "p2", Name: "Eggs", Price: 10}
	require.NoError(t, s.Set(ctx, models.ProductsCollection, product.ID, product))

	_, err := ToggleFavorite(ctx, s, "u1", product, false)
	require.NoError(t, err)

	var fav models.Favorite
	require.NoError(t, s.Get(ctx, models.LikedProductsCollection("u1"), product.ID, &fav))
	assert.Equal(t, "Uncategorized", fav.Category)
}

func TestToggleFavoriteMissingProduct(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	// State reported back must be the caller's old state.
	nowFavourite, err := ToggleFavorite(ctx, s, "u1", models.Product{ID: "ghost"}, false)
	assert.ErrorIs(t, err, ErrToggleFailed)
	assert.False(t, nowFavourite)
}

func TestToggleFavoriteStaleUnlike(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedProduct(t, s, 0)

	// The client believes it has liked the product but never did. The
	// counter must not move, and in particular must not go negative.
	nowFavourite, err := ToggleFavorite(ctx, s, "u1", product, true)
	require.NoError(t, err)
	assert.False(t, nowFavourite)
	assert.Equal(t, 0, likesCount(t, s, product.ID))
}

func TestToggleFavoriteStaleLike(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedProduct(t, s, 3)

	_, err := ToggleFavorite(ctx, s, "u1", product, false)
	require.NoError(t, err)
	require.Equal(t, 4, likesCount(t, s, product.ID))

	// A second like from a stale client re-writes the snapshot but must
	// not count the same user twice.
	nowFavourite, err := ToggleFavorite(ctx, s, "u1", product, false)
	require.NoError(t, err)
	assert.True(t, nowFavourite)
	assert.Equal(t, 4, likesCount(t, s, product.ID))

	var fav models.Favorite
	require.NoError(t, s.Get(ctx, models.LikedProductsCollection("u1"), product.ID, &fav))
}

func TestToggleFavoriteConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedProduct(t, s, 0)

	// N users like the same product at once. Every successful toggle must
	// land in the counter; a failed one must not.
	const users = 8
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		userID := fmt.Sprintf("u%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := ToggleFavorite(ctx, s, userID, product, false)
				if err == nil {
					return
				}
				if !errors.Is(err, ErrToggleFailed) {
					t.Errorf("unexpected toggle error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, users, likesCount(t, s, product.ID))

	for i := 0; i < users; i++ {
		var fav models.Favorite
		require.NoError(t, s.Get(ctx, models.LikedProductsCollection(fmt.Sprintf("u%d", i)), product.ID, &fav))
	}
}

func TestToggleFavoriteLikeUnlikeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	product := seedProduct(t, s, 3)

	state := false
	for i := 0; i < 6; i++ {
		next, err := ToggleFavorite(ctx, s, "u1", product, state)
		require.NoError(t, err)
		require.Equal(t, !state, next)
		state = next
	}

	// Three full like/unlike cycles end where they started.
	assert.False(t, state)
	assert.Equal(t, 3, likesCount(t, s, product.ID))
}

func TestToggleFavoriteErrorWrapsCause(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := ToggleFavorite(ctx, s, "u1", models.Product{ID: "ghost"}, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToggleFailed))
}
