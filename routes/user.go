package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/cart"
	favoriteControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/favorites"
	userControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/user"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/middleware"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, s store.Store) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(s))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(s)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCartHandler(s))              // GET /user/cart
			cartGroup.POST("/", cartControllers.UpdateCartItemHandler(s))          // POST /user/cart
			cartGroup.DELETE("/:item_id", cartControllers.DeleteCartItemHandler(s)) // DELETE /user/cart/:item_id
			cartGroup.DELETE("/", cartControllers.ClearUserCartHandler(s))         // DELETE /user/cart
			cartGroup.GET("/ws", cartControllers.CartWebSocketHandler(s))          // GET /user/cart/ws
		}

		// ──────────────── Liked Products ────────────────
		favGroup := userGroup.Group("/favorites")
		{
			favGroup.GET("/", favoriteControllers.ListFavoritesHandler(s))          // GET /user/favorites
			favGroup.POST("/toggle", favoriteControllers.ToggleFavoriteHandler(s))  // POST /user/favorites/toggle
			favGroup.GET("/ws", favoriteControllers.FavoritesWebSocketHandler(s))   // GET /user/favorites/ws
		}
	}
}
