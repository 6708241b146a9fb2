package shopControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

type UpdateShopProfileRequest struct {
	StoreName            string `json:"store_name" binding:"required"`
	StoreDescription     string `json:"store_description"`
	DefaultPickupAddress string `json:"default_pickup_address"`
}

// PUT /shop/profile
// Creates or updates the authenticated seller's store profile. Checkout
// rejects orders for sellers without a default pickup address.
func UpdateShopProfileHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")
		if sellerID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req UpdateShopProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		profile := models.StoreProfile{
			SellerID:             sellerID,
			StoreName:            req.StoreName,
			StoreDescription:     req.StoreDescription,
			DefaultPickupAddress: req.DefaultPickupAddress,
		}
		if err := s.Set(c.Request.Context(), models.StoreDetailsCollection(sellerID), sellerID, profile); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save store profile"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// GET /shop/:sellerID
func GetShopProfileHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.Param("sellerID")
		if sellerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sellerID is required"})
			return
		}

		var profile models.StoreProfile
		err := s.Get(c.Request.Context(), models.StoreDetailsCollection(sellerID), sellerID, &profile)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store profile"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
