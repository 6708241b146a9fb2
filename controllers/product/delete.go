package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// DeleteProduct removes a product owned by the authenticated seller.
func DeleteProduct(s store.Store) gin.HandlerFunc {
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

		var notOwner bool
		err := s.RunTransaction(c.Request.Context(), func(tx store.Tx) error {
			notOwner = false
			var product models.Product
			if err := tx.Get(models.ProductsCollection, id, &product); err != nil {
				return err
			}
			if product.SellerID != sellerID {
				notOwner = true
				return nil
			}
			tx.Delete(models.ProductsCollection, id)
			return nil
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if notOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
