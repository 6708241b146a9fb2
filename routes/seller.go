package routes

import (
	"github.com/gin-gonic/gin"

	productcontroller "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/product"
	shopControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/shop"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/middleware"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// SetupSellerRoutes registers all “/seller/*” endpoints. Requires JWT middleware.
func SetupSellerRoutes(r *gin.Engine, s store.Store) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken)
	{
		// ─────────── Store Profile ───────────
		sellerGroup.PUT("/shop", shopControllers.UpdateShopProfileHandler(s)) // PUT /seller/shop

		// ─────────── Product Management ───────────
		productSeller := sellerGroup.Group("/products")
		{
			productSeller.POST("", productcontroller.CreateProduct(s))
			productSeller.PUT("/:id", productcontroller.UpdateProduct(s))
			productSeller.DELETE("/:id", productcontroller.DeleteProduct(s))
			productSeller.GET("/export-excel", productcontroller.ExportProductsToExcel(s))
		}
	}
}
