package routes

import (
	"github.com/gin-gonic/gin"

	"shopapi/controllers"
	"shopapi/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	// Register and login share one per-IP limiter to slow credential abuse.
	authLimiter := middleware.NewRateLimiter(5, 5)

	users := r.Group("/users")
	{
		users.POST("/register", authLimiter.Middleware(), controllers.Register)
		users.POST("/login", authLimiter.Middleware(), controllers.Login)
		users.POST("/logout", controllers.Logout)

		protected := users.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/details", controllers.GetProfile)
			protected.PATCH("/update-password", controllers.UpdatePassword)
			protected.PATCH("/:id/set-as-admin", middleware.AdminMiddleware(), controllers.PromoteToAdmin)
		}
	}

	products := r.Group("/products")
	{
		products.GET("/active", controllers.GetActiveProducts)
		products.POST("/search-by-name", controllers.SearchProductsByName)
		products.POST("/search-by-price", controllers.SearchProductsByPriceRange)
		products.GET("/:productId", controllers.GetSingleProduct)

		admin := products.Group("/")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("/", controllers.CreateProduct)
			admin.GET("/all", controllers.GetAllProducts)
			admin.PATCH("/:productId/update", controllers.UpdateProduct)
			admin.PATCH("/:productId/archive", controllers.ArchiveProduct)
			admin.PATCH("/:productId/activate", controllers.ActivateProduct)
			admin.DELETE("/:productId/delete", controllers.DeleteProduct)
		}
	}

	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware())
	{
		cart.GET("/get-cart", controllers.GetCart)
		cart.POST("/add-to-cart", controllers.AddToCart)
		cart.PATCH("/update-cart-quantity", controllers.UpdateCartQuantity)
		cart.PATCH("/:productId/remove-from-cart", controllers.RemoveFromCart)
		cart.PUT("/clear-cart", controllers.ClearCart)
	}

	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("/checkout", controllers.Checkout)
		orders.GET("/my-orders", controllers.GetMyOrders)
		orders.GET("/all-orders", middleware.AdminMiddleware(), controllers.GetAllOrders)
	}
}
