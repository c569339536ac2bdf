package api

import (
	"net/http" // HTTP status codes

	"shop_backend/internal/middleware" // Caller identity
	"shop_backend/internal/service"    // Cart manager

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for cart writes
type CartRequest struct {
	ProductID string `json:"productId" binding:"required"` // Product to add or change
	Quantity  int    `json:"quantity"`                     // Validated by the cart manager
}

// GetCartHandler returns the caller's cart resolved to products
func GetCartHandler(carts *service.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.ListCart(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, items)
	}
}

// AddToCartHandler adds a quantity of a product to the caller's cart
func AddToCartHandler(carts *service.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		lines, err := carts.AddToCart(c.Request.Context(), middleware.UserID(c), req.ProductID, req.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, lines)
	}
}

// SetCartQuantityHandler overwrites the quantity of an existing cart line
func SetCartQuantityHandler(carts *service.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		lines, err := carts.SetQuantity(c.Request.Context(), middleware.UserID(c), req.ProductID, req.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, lines)
	}
}

// RemoveFromCartHandler drops a product from the caller's cart
func RemoveFromCartHandler(carts *service.CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := carts.RemoveFromCart(c.Request.Context(), middleware.UserID(c), c.Param("productId"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, lines)
	}
}
