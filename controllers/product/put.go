package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Stock        *int     `json:"stock"`
	ProductImage *string  `json:"product_image"`
}

// UpdateProduct updates an existing product by ID. Only the owning
// seller may update it. Runs inside a transaction so a concurrent
// favorite toggle never loses its likes_count bump.
func UpdateProduct(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		if sellerID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Price != nil && *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
			return
		}
		if req.Stock != nil && *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must not be negative"})
			return
		}

		var notOwner bool
		var product models.Product
		err := s.RunTransaction(c.Request.Context(), func(tx store.Tx) error {
			notOwner = false
			if err := tx.Get(models.ProductsCollection, id, &product); err != nil {
				return err
			}
			if product.SellerID != sellerID {
				notOwner = true
				return nil
			}
			if req.Name != nil {
				product.Name = *req.Name
			}
			if req.Category != nil {
				product.Category = *req.Category
			}
			if req.Description != nil {
				product.Description = *req.Description
			}
			if req.Price != nil {
				product.Price = *req.Price
			}
			if req.Stock != nil {
				product.Stock = *req.Stock
			}
			if req.ProductImage != nil {
				product.ProductImage = *req.ProductImage
			}
			tx.Set(models.ProductsCollection, id, product)
			return nil
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		if notOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
