package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"shop_backend/internal/auth" // Token verification

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// JWTAuthMiddleware validates JWT tokens and extracts the caller's identity
func JWTAuthMiddleware(gw *auth.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		id, err := gw.Verify(tokenStr)                        // Verify signature and expiry
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, id.UserID) // Store userID in context
		c.Set(RoleKey, id.Role)     // Store role claim in context
		c.Next()                    // Proceed to the next handler
	}
}

// UserID returns the authenticated user id, or "" outside JWTAuthMiddleware
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
