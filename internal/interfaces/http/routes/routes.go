// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
)

// Handlers groups every endpoint handler
type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Product   *handlers.ProductHandler
	Category  *handlers.CategoryHandler
	Review    *handlers.ReviewHandler
	Wishlist  *handlers.WishlistHandler
	Cart      *handlers.CartHandler
	Order     *handlers.OrderHandler
	Analytics *handlers.AnalyticsHandler
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, authn *middleware.Authenticator) {
	requireAuth := authn.RequireAuth()
	requireAdmin := authn.RequireAdmin()

	SetupAuthRoutes(rg, h.Auth, requireAuth)

	users := rg.Group("/users", requireAuth, requireAdmin)
	{
		users.GET("", h.User.GetUsers)
		users.GET("/:id", h.User.GetUser)
	}

	SetupProductRoutes(rg, h, requireAuth, requireAdmin)

	wishlist := rg.Group("/wishlist", requireAuth)
	{
		wishlist.GET("", h.Wishlist.GetWishlist)
		wishlist.POST("", h.Wishlist.AddToWishlist)
		wishlist.DELETE("/:productId", h.Wishlist.RemoveFromWishlist)
	}

	SetupOrderRoutes(rg, h, requireAuth, requireAdmin)

	dashboard := rg.Group("/dashboard", requireAuth, requireAdmin)
	{
		dashboard.GET("/stats", h.Analytics.GetDashboardStats)
		dashboard.GET("/anomalies", h.Analytics.GetAnomalies)
	}
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, requireAuth gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.GET("/logout", h.Logout)
		auth.GET("/me", requireAuth, h.GetMe)
	}
}

// SetupProductRoutes sets up catalog routes: products, categories and reviews
func SetupProductRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth, requireAdmin gin.HandlerFunc) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/category/:id", h.Product.GetProductsByCategory)
		products.GET("/:id", h.Product.GetProduct)

		products.POST("", requireAuth, requireAdmin, h.Product.CreateProduct)
		products.PATCH("/:id", requireAuth, requireAdmin, h.Product.UpdateProduct)
		products.DELETE("/:id", requireAuth, requireAdmin, h.Product.DeleteProduct)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.Category.GetCategories)
		categories.GET("/:id", h.Category.GetCategory)

		categories.POST("", requireAuth, requireAdmin, h.Category.CreateCategory)
		categories.PATCH("/:id", requireAuth, requireAdmin, h.Category.UpdateCategory)
		categories.DELETE("/:id", requireAuth, requireAdmin, h.Category.DeleteCategory)
	}

	reviews := rg.Group("/reviews")
	{
		reviews.GET("", h.Review.GetReviews)
		reviews.GET("/:id", h.Review.GetReview)

		reviews.POST("", requireAuth, h.Review.CreateReview)
		reviews.PATCH("/:id", requireAuth, h.Review.UpdateReview)
		reviews.DELETE("/:id", requireAuth, h.Review.DeleteReview)
	}
}

// SetupOrderRoutes sets up cart and order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, requireAuth, requireAdmin gin.HandlerFunc) {
	cart := rg.Group("/cart", requireAuth)
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("", h.Cart.AddToCart)
		cart.PATCH("/:productId", h.Cart.UpdateCartItem)
		cart.DELETE("/:productId", h.Cart.RemoveFromCart)
	}

	orders := rg.Group("/orders", requireAuth)
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", requireAdmin, h.Order.GetAllOrders)
		orders.GET("/showAllMyOrders", h.Order.GetMyOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PATCH("/:id", requireAdmin, h.Order.UpdateOrder)
	}
}
