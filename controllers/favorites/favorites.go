package favoriteControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// ErrToggleFailed is returned when the toggle transaction exhausted its
// retry budget or the product no longer exists. The caller must leave its
// UI state unchanged and may offer a retry.
var ErrToggleFailed = errors.New("favorites: toggle failed")

// -------- Request Structs --------

type ToggleFavoriteRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	IsFavourite bool   `json:"is_favourite"`
}

// -------- Core Logic --------

// ToggleFavorite flips the user's favorite state for a product and keeps
// the product's likes_count consistent with the favorites collection.
//
// The favorite write and the counter update run in one transaction, and
// the counter is always derived from a likes_count read INSIDE that
// transaction, so N concurrent togglers can never lose an increment.
// isFavourite is the caller's belief about the current state; the new
// state (always its negation on success) is returned. The belief can be
// stale, so the counter moves only when the favorite document actually
// appears or disappears; likes_count never drops below the truth.
func ToggleFavorite(ctx context.Context, s store.Store, userID string, product models.Product, isFavourite bool) (bool, error) {
	favorites := models.LikedProductsCollection(userID)

	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		var fresh models.Product
		if err := tx.Get(models.ProductsCollection, product.ID, &fresh); err != nil {
			return err
		}

		var current models.Favorite
		err := tx.Get(favorites, product.ID, &current)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		liked := err == nil

		if isFavourite {
			if liked {
				tx.Delete(favorites, product.ID)
				fresh.LikesCount--
			}
		} else {
			tx.Set(favorites, product.ID, models.Favorite{
				ProductID:   fresh.ID,
				Name:        fresh.Name,
				Category:    orUncategorized(fresh.Category),
				Price:       fresh.Price,
				Description: fresh.Description,
				Stock:       fresh.Stock,
				LikedAt:     time.Now().UTC().Format(time.RFC3339),
			})
			if !liked {
				fresh.LikesCount++
			}
		}
		tx.Set(models.ProductsCollection, product.ID, fresh)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return isFavourite, fmt.Errorf("%w: %v", ErrToggleFailed, err)
		}
		return isFavourite, err
	}
	return !isFavourite, nil
}

func orUncategorized(category string) string {
	if category == "" {
		return "Uncategorized"
	}
	return category
}

// -------- Handlers --------

// POST /favorites/toggle
func ToggleFavoriteHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req ToggleFavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		nowFavourite, err := ToggleFavorite(c.Request.Context(), s, userID, models.Product{ID: req.ProductID}, req.IsFavourite)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrToggleFailed) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"is_favourite": nowFavourite})
	}
}

// GET /favorites
func ListFavoritesHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var favorites []models.Favorite
		if err := s.Query(c.Request.Context(), models.LikedProductsCollection(userID), nil, &favorites); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
			return
		}
		c.JSON(http.StatusOK, favorites)
	}
}
