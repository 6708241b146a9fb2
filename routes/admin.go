package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/admin"
	userControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/user"
	voucherControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/voucher"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/middleware"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API‐Key middleware.
func SetupAdminRoutes(r *gin.Engine, s store.Store) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(s))

		// ─────────── Voucher Management ───────────
		voucherMgmt := adminGroup.Group("/vouchers")
		{
			voucherMgmt.POST("", voucherControllers.CreateVoucherHandler(s))
			voucherMgmt.GET("", voucherControllers.ListVouchersHandler(s))
			voucherMgmt.DELETE("/:id", voucherControllers.DeleteVoucherHandler(s))
		}

		// ─────────── Banner Management ───────────
		bannerMgmt := adminGroup.Group("/banner")
		{
			bannerMgmt.POST("/upload", adminController.UploadBanner(s))
			bannerMgmt.GET("/", adminController.GetBanners(s))
			bannerMgmt.DELETE("/:id", adminController.DeleteBanner(s))
		}
	}
}
