package api

import (
	"net/http" // HTTP status codes

	"shop_backend/internal/middleware" // Caller identity
	"shop_backend/internal/service"    // Account service

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"` // Current password
	NewPassword string `json:"new_password" binding:"required"` // Replacement password
}

// ProfileHandler returns the caller's profile
func ProfileHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := accounts.Profile(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, user)
	}
}

// UpdateProfileHandler edits nickname, avatar or gender of the caller
func UpdateProfileHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ProfileUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		user, err := accounts.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, user)
	}
}

// ChangePasswordHandler replaces the caller's password
func ChangePasswordHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		if err := accounts.ChangePassword(c.Request.Context(), middleware.UserID(c), req.OldPassword, req.NewPassword); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, nil)
	}
}
