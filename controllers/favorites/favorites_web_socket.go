// favorites_web_socket.go
package favoriteControllers

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

// GET /favorites/ws
// Streams the user's full favorites set on every change, so listing
// screens keep their badges current across devices.
func FavoritesWebSocketHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sub := s.Subscribe(models.LikedProductsCollection(userID), nil)
		defer sub.Unsubscribe()

		// Closing the subscription ends the write loop below.
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
