package cartControllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// subtotalOf recomputes quantity × unit price, the only way a cart
// subtotal is ever produced.
func subtotalOf(price float64, quantity int) float64 {
	out, _ := decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).Float64()
	return out
}

// -------- Core Logic --------

// UpsertCartItem adds a product to the user's cart, or updates the
// quantity if the product is already there. The item snapshots name,
// price and image at add-time.
func UpsertCartItem(ctx context.Context, s store.Store, userID, productID string, quantity int) (*models.CartItem, error) {
	var product models.Product
	if err := s.Get(ctx, models.ProductsCollection, productID, &product); err != nil {
		return nil, err
	}

	collection := models.CartItemsCollection(userID)

	var existing []models.CartItem
	filters := []store.Filter{{Field: "product_id", Op: "==", Value: productID}}
	if err := s.Query(ctx, collection, filters, &existing); err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		item := existing[0]
		item.Quantity = quantity
		item.Subtotal = subtotalOf(item.Price, quantity)
		item.CreatedAt = time.Now()
		if err := s.Set(ctx, collection, item.ID, item); err != nil {
			return nil, err
		}
		return &item, nil
	}

	item := models.CartItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Image:     product.ProductImage,
		Subtotal:  subtotalOf(product.Price, quantity),
		CreatedAt: time.Now(),
	}
	if err := s.Create(ctx, collection, item.ID, item); err != nil {
		return nil, err
	}
	return &item, nil
}

// -------- Handlers --------

// POST /user/cart
func UpdateCartItemHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := UpsertCartItem(c.Request.Context(), s, userID, input.ProductID, input.Quantity)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:item_id
func DeleteCartItemHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		itemID := c.Param("item_id")

		err := s.Delete(c.Request.Context(), models.CartItemsCollection(userID), itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCartHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		collection := models.CartItemsCollection(userID)

		var items []models.CartItem
		if err := s.Query(c.Request.Context(), collection, nil, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user cart"})
			return
		}
		for _, item := range items {
			if err := s.Delete(c.Request.Context(), collection, item.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /user/cart
func GetUserCartHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var items []models.CartItem
		if err := s.Query(c.Request.Context(), models.CartItemsCollection(userID), nil, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
