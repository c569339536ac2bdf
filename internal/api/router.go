package api

import (
	"shop_backend/internal/auth"       // Token gateway
	"shop_backend/internal/events"     // Order event hub
	"shop_backend/internal/middleware" // Auth and admin guards
	"shop_backend/internal/service"    // Services
	"shop_backend/internal/store"      // Entity store

	"github.com/gin-gonic/gin" // Gin web framework
)

// Services bundles what the handlers need
type Services struct {
	Store     *store.Store
	Gateway   *auth.Gateway
	Accounts  *service.Accounts
	Catalog   *service.Catalog
	Carts     *service.CartManager
	Addresses *service.AddressRegistry
	Orders    *service.OrderEngine
	Auditor   *service.Auditor
	Hub       *events.Hub
}

// RegisterRoutes mounts every endpoint under /api
func RegisterRoutes(r *gin.Engine, s Services) {
	api := r.Group("/api")

	// Public routes
	api.POST("/register", RegisterHandler(s.Accounts))                      // Registration endpoint
	api.POST("/login", LoginHandler(s.Accounts))                            // Login endpoint
	api.GET("/products", ListProductsHandler(s.Catalog))                    // Product listing
	api.GET("/products/hot", HotProductsHandler(s.Catalog))                 // Hot products
	api.GET("/products/new", NewProductsHandler(s.Catalog))                 // Newest products
	api.GET("/products/:id", GetProductHandler(s.Catalog))                  // Product detail
	api.GET("/categories", ListCategoriesHandler(s.Catalog))                // Category listing
	api.GET("/categories/:id", GetCategoryHandler(s.Catalog))               // Category detail
	api.GET("/categories/:id/products", CategoryProductsHandler(s.Catalog)) // Products of a category
	api.GET("/banners", ActiveBannersHandler(s.Catalog))                    // Home page banners
	api.GET("/orders/ws", OrderEventsHandler(s.Gateway, s.Store, s.Hub))    // Order event stream, authenticates itself

	// User routes (protected by JWT)
	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware(s.Gateway))

	users := authed.Group("/users")
	users.GET("/me", ProfileHandler(s.Accounts))                                     // Own profile
	users.PUT("/me", UpdateProfileHandler(s.Accounts))                               // Edit own profile
	users.PUT("/password", ChangePasswordHandler(s.Accounts))                        // Change password
	users.GET("/address", ListAddressesHandler(s.Addresses))                         // Own addresses
	users.POST("/address", AddAddressHandler(s.Addresses))                           // Add address
	users.PUT("/address/:addressId", UpdateAddressHandler(s.Addresses))              // Edit address
	users.POST("/address/:addressId/default", SetDefaultAddressHandler(s.Addresses)) // Set default address
	users.DELETE("/address/:addressId", DeleteAddressHandler(s.Addresses))           // Delete address

	cart := authed.Group("/cart")
	cart.GET("", GetCartHandler(s.Carts))                      // Cart contents
	cart.POST("", AddToCartHandler(s.Carts))                   // Add to cart
	cart.PUT("", SetCartQuantityHandler(s.Carts))              // Set line quantity
	cart.DELETE("/:productId", RemoveFromCartHandler(s.Carts)) // Remove line

	orders := authed.Group("/orders")
	orders.POST("", CreateOrderHandler(s.Orders))               // Place order
	orders.POST("/checkout", CheckoutHandler(s.Orders))         // Order the cart
	orders.GET("", ListMyOrdersHandler(s.Orders))               // Own orders
	orders.GET("/:id", GetOrderHandler(s.Orders))               // Own order detail
	orders.GET("/:id/products", OrderProductsHandler(s.Orders)) // Products of an own order
	orders.POST("/:id/cancel", CancelOrderHandler(s.Orders))    // Cancel own order
	orders.DELETE("/:id", DeleteOrderHandler(s.Orders))         // Delete own order

	// Admin routes (protected, admin only)
	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnlyMiddleware(s.Store))
	admin.GET("/users", ListUsersHandler(s.Accounts))                   // List users
	admin.DELETE("/users", DeleteUsersHandler(s.Accounts))              // Delete users
	admin.GET("/users/:id/audit", AuditUserHandler(s.Auditor))          // Audit user references
	admin.POST("/users/:id/repair", RepairUserHandler(s.Auditor))       // Repair user references
	admin.GET("/orders", ListAllOrdersHandler(s.Orders))                // List all orders
	admin.GET("/orders/export", ExportOrdersHandler(s.Orders))          // Download orders as xlsx
	admin.GET("/orders/:id", GetAnyOrderHandler(s.Orders))              // Any order detail
	admin.PUT("/orders/:id/status", UpdateOrderStatusHandler(s.Orders)) // Change order status
	admin.POST("/products", CreateProductHandler(s.Catalog))            // Create product
	admin.PUT("/products/:id", UpdateProductHandler(s.Catalog))         // Update product
	admin.DELETE("/products", DeleteProductsHandler(s.Catalog))         // Delete products
	admin.POST("/categories", CreateCategoryHandler(s.Catalog))         // Create category
	admin.PUT("/categories/:id", UpdateCategoryHandler(s.Catalog))      // Update category
	admin.DELETE("/categories/:id", DeleteCategoryHandler(s.Catalog))   // Delete category
	admin.GET("/banners", ListBannersHandler(s.Catalog))                // All banners
	admin.POST("/banners", CreateBannerHandler(s.Catalog))              // Create banner
	admin.PUT("/banners/:id", UpdateBannerHandler(s.Catalog))           // Update banner
	admin.DELETE("/banners/:id", DeleteBannerHandler(s.Catalog))        // Delete banner
}
