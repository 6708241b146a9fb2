package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/order"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/middleware"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

func SetupOrderRoutes(r *gin.Engine, s store.Store) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Create a new order
		orders.POST("/place", orderControllers.PlaceOrderHandler(s))

		// websocket endpoint for real-time order updates (?role=buyer|seller)
		orders.GET("/ws", orderControllers.OrderWebSocketHandler(s))

		// Fetch orders for the authenticated buyer
		orders.GET("/user", orderControllers.GetUserOrdersHandler(s))

		// Fetch orders for the authenticated seller's store
		orders.GET("/store", orderControllers.GetStoreOrdersHandler(s))

		// Fetch a single order with the caller's allowed transitions
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(s))

		// Update order status (e.g., processing, cancelled)
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(s))
	}
}
