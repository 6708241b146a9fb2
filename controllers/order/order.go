package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/pricing"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// -------- Request Structs --------

type PlaceOrderBody struct {
	ProductID     string `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	VoucherID     string `json:"voucher_id"`
	CartItemID    string `json:"cart_item_id"`
	PaymentMethod string `json:"payment_method"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Handlers --------

// POST /orders/place
func PlaceOrderHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var body PlaceOrderBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := PlaceOrder(c.Request.Context(), s, PlaceOrderRequest{
			BuyerID:       userID,
			ProductID:     body.ProductID,
			Quantity:      body.Quantity,
			VoucherID:     body.VoucherID,
			CartItemID:    body.CartItemID,
			PaymentMethod: body.PaymentMethod,
		})
		if err != nil {
			c.JSON(placeOrderStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func placeOrderStatus(err error) int {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSellerAddressMissing),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrVoucherExpired),
		errors.Is(err, pricing.ErrMinSpendNotMet):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GET /orders/user
// Orders placed by the authenticated buyer.
func GetUserOrdersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []models.Order
		filters := []store.Filter{{Field: "user_id", Op: "==", Value: userID}}
		if err := s.Query(c.Request.Context(), models.OrdersCollection, filters, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/store
// Orders received by the authenticated seller's store.
func GetStoreOrdersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []models.Order
		filters := []store.Filter{{Field: "store_id", Op: "==", Value: userID}}
		if err := s.Query(c.Request.Context(), models.OrdersCollection, filters, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := s.Get(c.Request.Context(), models.OrdersCollection, orderID, &order); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// The read-side contract: which transitions this caller may be offered.
		c.JSON(http.StatusOK, gin.H{
			"order":           order,
			"allowed_targets": AllowedTargets(order, c.GetString("user_id")),
		})
	}
}

// PUT /orders/:orderID/status
func UpdateOrderStatusHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		target, ok := models.ValidOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}

		err := Transition(c.Request.Context(), s, orderID, target, userID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
		}
	}
}
