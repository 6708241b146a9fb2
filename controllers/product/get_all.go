package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// GET /products
// Filtering params: search, category, seller_id, min_price, max_price.
func GetProducts(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.ToLower(c.Query("search"))

		var filters []store.Filter
		if category := c.Query("category"); category != "" {
			filters = append(filters, store.Filter{Field: "category", Op: "==", Value: category})
		}
		if sellerID := c.Query("seller_id"); sellerID != "" {
			filters = append(filters, store.Filter{Field: "seller_id", Op: "==", Value: sellerID})
		}
		if minPriceStr := c.Query("min_price"); minPriceStr != "" {
			mp, err := strconv.ParseFloat(minPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			filters = append(filters, store.Filter{Field: "price", Op: ">=", Value: mp})
		}
		if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
			mp, err := strconv.ParseFloat(maxPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			filters = append(filters, store.Filter{Field: "price", Op: "<=", Value: mp})
		}

		var products []models.Product
		if err := s.Query(c.Request.Context(), models.ProductsCollection, filters, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		// Name search is a substring match, applied after the store filters.
		if search != "" {
			matched := products[:0]
			for _, p := range products {
				if strings.Contains(strings.ToLower(p.Name), search) {
					matched = append(matched, p)
				}
			}
			products = matched
		}

		c.JSON(http.StatusOK, products)
	}
}
