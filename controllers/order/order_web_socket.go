// order_websocket.go
package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/models"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /orders/ws?role=buyer|seller
// Streams the caller's full order list on every change, so buyer and
// seller dashboards see status transitions live.
func OrderWebSocketHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		field := "user_id"
		if c.Query("role") == "seller" {
			field = "store_id"
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sub := s.Subscribe(models.OrdersCollection, []store.Filter{{Field: field, Op: "==", Value: userID}})
		defer sub.Unsubscribe()

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					sub.Unsubscribe()
					return
				}
			}
		}()

		for set := range sub.C {
			if err := conn.WriteJSON(set); err != nil {
				break
			}
		}
	}
}
