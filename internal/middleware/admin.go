package middleware

import (
	"net/http" // HTTP status codes

	"shop_backend/internal/domain" // Roles
	"shop_backend/internal/store"  // User lookup

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the user's role from the store on each request, so a
// demoted admin loses access before their token expires
func AdminOnlyMiddleware(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c) // Set by JWTAuthMiddleware
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "Unauthorized"})
			return
		}
		user, err := st.FindUser(c.Request.Context(), userID) // Fetch user from the store
		if err != nil || user.Role != domain.RoleAdmin {
			// Missing users and non-admins are treated alike
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "Admin access required"})
			return
		}
		c.Set(RoleKey, user.Role) // Role as stored, not as claimed
		c.Next()
	}
}
