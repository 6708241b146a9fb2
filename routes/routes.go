package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// SetupRoutes is the single entry‐point that wires up all route groups.
func SetupRoutes(r *gin.Engine, s store.Store) {
	// 1️⃣ Public Auth routes (no middleware)
	SetupAuthRoutes(r, s)

	// 2️⃣ Public catalogue routes (no middleware)
	SetupPublicRoutes(r, s)

	// 3️⃣ User routes (JWT‐protected)
	SetupUserRoutes(r, s)

	// 4️⃣ Seller routes (JWT‐protected)
	SetupSellerRoutes(r, s)

	// order routes
	SetupOrderRoutes(r, s)

	// 5️⃣ Admin routes (API‐Key‐protected)
	SetupAdminRoutes(r, s)
}
