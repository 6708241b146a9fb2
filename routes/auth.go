package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/auth"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, s store.Store) {
	authGroup := r.Group("/auth")
	{
		// Firebase ID token exchange for a session JWT
		authGroup.POST("/login", auth.FirebaseLoginHandler(s))
	}
}
