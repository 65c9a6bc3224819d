package routes

import (
	"storefront/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public storefront surface and the admin console
// surface. adminGate runs before every admin handler; nothing under /admin
// is reachable without passing it.
func RegisterRoutes(
	r *gin.Engine,
	catalog *controllers.CatalogController,
	products *controllers.ProductController,
	orders *controllers.OrderController,
	reviews *controllers.ReviewController,
	inquiries *controllers.InquiryController,
	adminGate gin.HandlerFunc,
) {
	public := r.Group("/")
	{
		public.GET("/products", catalog.GetCatalog)
		public.GET("/products/stream", catalog.StreamCatalog)
		public.POST("/orders", orders.CreateOrder)
		public.POST("/inquiries", inquiries.SubmitInquiry)
		public.GET("/reviews", reviews.ListReviews)
		public.POST("/reviews", reviews.SubmitReview)
	}

	admin := r.Group("/admin", adminGate)
	{
		admin.GET("/products", products.ListProducts)
		admin.GET("/products/archived", products.ListArchived)
		admin.GET("/products/:id", products.GetProduct)
		admin.POST("/products", products.CreateProduct)
		admin.PUT("/products/:id", products.UpdateProduct)
		admin.POST("/products/:id/archive", products.ArchiveProduct)
		admin.POST("/products/:id/restore", products.RestoreProduct)
		admin.DELETE("/products/:id", products.PurgeProduct)

		admin.GET("/orders", orders.ListOrders)
		admin.POST("/orders/:id/process", orders.MarkProcessed)
	}
}
