package router

import (
	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired, loginLimiter echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login, loginLimiter)
	auth.POST("/logout", handler.Logout)
	auth.GET("/session", handler.Session, authRequired)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users", authRequired)
	adminOnly := middleware.RoleRequired(domain.RoleAdmin)

	users.GET("/me", handler.Me)
	users.GET("", handler.GetAllUsers, adminOnly)
	users.GET("/:id", handler.GetUserByID, adminOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory, authRequired, middleware.RoleRequired(domain.RoleAdmin))
}

func SetupVendorRoutes(api *echo.Group, handler *rest.VendorHandler, authRequired echo.MiddlewareFunc) {
	vendors := api.Group("/vendors")
	vendors.GET("", handler.GetAllVendors)
	vendors.GET("/:id", handler.GetVendorByID)

	own := api.Group("/vendor", authRequired, middleware.RoleRequired(domain.RoleVendor))
	own.GET("/store", handler.MyStore)
	own.PUT("/status", handler.SetStatus)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc) {
	products := api.Group("/products")
	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)

	// Inventory writes are scoped to the caller's own store
	inventory := api.Group("/vendor/products", authRequired, middleware.RoleRequired(domain.RoleVendor))
	inventory.POST("", handler.CreateProduct)
	inventory.PUT("/:id", handler.UpdateProduct)
	inventory.DELETE("/:id", handler.DeleteProduct)
}

func SetOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.POST("", handler.CreateOrder, middleware.RoleRequired(domain.RoleCustomer))
	orders.GET("", handler.GetAllOrders)
	orders.GET("/:id", handler.GetOrderByID)
	orders.PUT("/:id/status", handler.UpdateOrderStatus)
}

func SetCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired echo.MiddlewareFunc) {
	cart := api.Group("/cart", authRequired)

	cart.GET("", handler.GetCart)
	cart.POST("/actions", handler.Dispatch)
	cart.DELETE("", handler.ClearCart)
}

func SetLoyaltyRoutes(api *echo.Group, handler *rest.LoyaltyHandler, authRequired echo.MiddlewareFunc) {
	loyalty := api.Group("/loyalty", authRequired)

	loyalty.GET("", handler.Balance)
	loyalty.POST("/earn", handler.Earn)
	loyalty.POST("/redeem", handler.Redeem)
}

func SetDeliveryRoutes(api *echo.Group, handler *rest.DeliveryHandler, authRequired echo.MiddlewareFunc) {
	deliveries := api.Group("/deliveries", authRequired)
	riderOnly := middleware.RoleRequired(domain.RoleRider)

	deliveries.POST("", handler.AcceptDelivery, riderOnly)
	deliveries.GET("", handler.ListDeliveries, riderOnly)
	deliveries.GET("/:id", handler.GetDelivery)
	deliveries.GET("/:id/progress", handler.Progress)
	deliveries.GET("/:id/track", handler.Track)
	deliveries.PUT("/:id/status", handler.UpdateStatus, riderOnly)
}
