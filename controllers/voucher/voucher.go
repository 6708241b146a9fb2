package voucherControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

type CreateVoucherRequest struct {
	Name       string          `json:"name" binding:"required"`
	Scope      string          `json:"type" binding:"required"`
	Discount   models.Discount `json:"discount" binding:"required"`
	ExpiryDate time.Time       `json:"expiry_date" binding:"required"`
}

// validateVoucher enforces the voucher invariants at the creation
// boundary, since the commerce engine treats vouchers as read-only.
func validateVoucher(req CreateVoucherRequest) error {
	if req.Scope != models.VoucherScopeDelivery && req.Scope != models.VoucherScopeSubtotal {
		return errors.New("type must be \"delivery\" or \"subtotal\"")
	}
	switch req.Discount.Type {
	case models.DiscountTypePercentage:
		if req.Discount.Amount < 0 || req.Discount.Amount > 100 {
			return errors.New("percentage amount must be between 0 and 100")
		}
	case models.DiscountTypeFixed:
		if req.Discount.Amount < 0 {
			return errors.New("fixed amount must not be negative")
		}
	default:
		return errors.New("discount.type must be \"percentage\" or \"fixed\"")
	}
	if req.Discount.MinSpend < 0 {
		return errors.New("min_spend must not be negative")
	}
	if !req.ExpiryDate.After(time.Now()) {
		return errors.New("expiry_date must be in the future")
	}
	return nil
}

// GET /vouchers
func ListVouchersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vouchers []models.Voucher
		if err := s.Query(c.Request.Context(), models.VouchersCollection, nil, &vouchers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vouchers"})
			return
		}
		c.JSON(http.StatusOK, vouchers)
	}
}

// POST /admin/vouchers
func CreateVoucherHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVoucherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validateVoucher(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		voucher := models.Voucher{
			ID:         uuid.NewString(),
			Name:       req.Name,
			Scope:      req.Scope,
			Discount:   req.Discount,
			ExpiryDate: req.ExpiryDate,
		}
		if err := s.Create(c.Request.Context(), models.VouchersCollection, voucher.ID, voucher); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create voucher"})
			return
		}
		c.JSON(http.StatusCreated, voucher)
	}
}

// DELETE /admin/vouchers/:id
func DeleteVoucherHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		err := s.Delete(c.Request.Context(), models.VouchersCollection, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete voucher"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Voucher deleted"})
	}
}
