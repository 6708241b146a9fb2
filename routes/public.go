package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/admin"
	productcontroller "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/product"
	shopControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/shop"
	voucherControllers "github.com/Zuluuu02/Farm-to-Plate-FINAL/controllers/voucher"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

// SetupPublicRoutes registers the unauthenticated catalogue endpoints.
func SetupPublicRoutes(r *gin.Engine, s store.Store) {
	// ──────────────── Browse Products ────────────────
	r.GET("/products", productcontroller.GetProducts(s))        // GET /products
	r.GET("/products/:id", productcontroller.GetProductByID(s)) // GET /products/:id

	// ──────────────── Storefronts ────────────────
	r.GET("/shop/:sellerID", shopControllers.GetShopProfileHandler(s))

	// ──────────────── Vouchers & Banners ────────────────
	r.GET("/vouchers", voucherControllers.ListVouchersHandler(s))
	r.GET("/banners", adminController.GetBanners(s))
}
