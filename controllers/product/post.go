package productcontroller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"min=0"`
	Stock        int     `json:"stock" binding:"min=0"`
	ProductImage string  `json:"product_image"`
}

// CreateProduct creates a new product owned by the authenticated seller.
// The likes counter starts at zero and is only ever touched by the
// favorite toggle.
func CreateProduct(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		if sellerID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			ID:           uuid.NewString(),
			SellerID:     sellerID,
			Name:         req.Name,
			Category:     req.Category,
			Description:  req.Description,
			Price:        req.Price,
			Stock:        req.Stock,
			LikesCount:   0,
			ProductImage: req.ProductImage,
			CreatedAt:    time.Now(),
		}

		if err := s.Create(c.Request.Context(), models.ProductsCollection, product.ID, product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
