package api

import (
	"net/http" // HTTP status codes
	"strings"  // Token extraction

	"shop_backend/internal/auth"       // Token verification for websocket clients
	"shop_backend/internal/domain"     // Roles
	"shop_backend/internal/events"     // Order event hub
	"shop_backend/internal/middleware" // Caller identity
	"shop_backend/internal/service"    // Order engine
	"shop_backend/internal/store"      // Order filters

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for order creation
type CreateOrderRequest struct {
	Products  []service.LineItem `json:"products"`  // Requested line items
	AddressID string             `json:"addressId"` // Optional shipping address
}

// Request struct for checkout
type CheckoutRequest struct {
	AddressID string `json:"addressId"` // Optional shipping address
}

// CreateOrderHandler places an order for the caller
func CreateOrderHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		order, err := orders.CreateOrder(c.Request.Context(), middleware.UserID(c), req.Products, req.AddressID)
		if err != nil {
			fail(c, err, order)
			return
		}
		respond(c, http.StatusCreated, order)
	}
}

// CheckoutHandler orders the caller's cart
func CheckoutHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, "Invalid request")
				return
			}
		}
		order, err := orders.Checkout(c.Request.Context(), middleware.UserID(c), req.AddressID)
		if err != nil {
			fail(c, err, order)
			return
		}
		respond(c, http.StatusCreated, order)
	}
}

// ListMyOrdersHandler pages through the caller's orders, newest first
func ListMyOrdersHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		listOrders(c, orders, middleware.UserID(c))
	}
}

// listOrders serves an order listing restricted to userID, or unrestricted when empty
func listOrders(c *gin.Context, orders *service.OrderEngine, userID string) {
	asOf, ok := asOfParam(c)
	if !ok {
		badRequest(c, "as_of must be an RFC 3339 timestamp")
		return
	}
	page, pageSize := pageParams(c)
	filter := store.OrderFilter{
		UserID: userID,
		Status: domain.OrderStatus(c.Query("status")),
		AsOf:   asOf,
	}
	result, err := orders.ListOrders(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// GetOrderHandler returns one of the caller's orders
func GetOrderHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.OwnedOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, order)
	}
}

// OrderProductsHandler returns the lines of one of the caller's orders with their products
func OrderProductsHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := orders.OwnedOrder(ctx, middleware.UserID(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		products, err := orders.OrderProducts(ctx, order)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, products)
	}
}

// CancelOrderHandler cancels one of the caller's orders
func CancelOrderHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.CancelOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, order)
	}
}

// DeleteOrderHandler deletes one of the caller's orders
func DeleteOrderHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := orders.DeleteOrder(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, nil)
	}
}

// OrderEventsHandler upgrades to a websocket streaming the caller's order events.
// Browsers cannot set headers on websocket requests, so the token may also come
// from the token query parameter.
func OrderEventsHandler(gw *auth.Gateway, st *store.Store, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		id, err := gw.Verify(token)
		if err != nil {
			fail(c, err)
			return
		}
		user, err := st.FindUser(c.Request.Context(), id.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		hub.Serve(c.Writer, c.Request, user.ID, user.IsAdmin())
	}
}
