package routes

import (
	"github.com/dmrramaral/sushi-app/controllers"
	"github.com/dmrramaral/sushi-app/middleware"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth    *controllers.AuthController
	Cart    *controllers.CartController
	Orders  *controllers.OrderController
	Catalog *controllers.CatalogController
	Admin   *controllers.AdminController
	Health  *controllers.HealthController
}

// RegisterRoutes mounts the BFF API. session must run before anything that
// reads the storefront.
func RegisterRoutes(r *gin.Engine, ctrl Controllers, session gin.HandlerFunc) {
	r.GET("/health", ctrl.Health.Health)

	// Public routes - no auth required
	public := r.Group("/bff")
	public.Use(session)
	{
		public.POST("/auth/login", ctrl.Auth.Login)
		public.POST("/auth/register", ctrl.Auth.Register)
		public.GET("/auth/me", ctrl.Auth.Me)
		public.POST("/auth/logout", ctrl.Auth.Logout)
	}

	// Catalog routes - shared anonymous client, no session
	catalog := r.Group("/bff")
	{
		catalog.GET("/home", ctrl.Catalog.Home)
		catalog.GET("/products", ctrl.Catalog.Products)
		catalog.GET("/products/search", ctrl.Catalog.Search)
		catalog.GET("/products/:id", ctrl.Catalog.ProductByID)
		catalog.GET("/categories", ctrl.Catalog.Categories)
	}

	// Protected routes - require a logged-in session
	protected := r.Group("/bff")
	protected.Use(session, middleware.RequireAuth())
	{
		protected.GET("/cart", ctrl.Cart.Get)
		protected.POST("/cart/items", ctrl.Cart.AddItem)
		protected.PUT("/cart/items/:product_id", ctrl.Cart.UpdateItem)
		protected.DELETE("/cart/items/:product_id", ctrl.Cart.RemoveItem)
		protected.POST("/cart/refresh", ctrl.Cart.Refresh)
		protected.POST("/cart/confirm", ctrl.Cart.Confirm)

		protected.GET("/orders", ctrl.Orders.List)
		protected.GET("/orders/:id", ctrl.Orders.Get)
	}

	admin := r.Group("/bff/admin")
	admin.Use(session, middleware.RequireAuth(), middleware.RequireAdmin())
	{
		admin.Any("/*path", ctrl.Admin.Proxy)
	}
}
