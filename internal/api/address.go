package api

import (
	"net/http" // HTTP status codes

	"shop_backend/internal/middleware" // Caller identity
	"shop_backend/internal/service"    // Address registry

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for adding or editing an address
type AddressRequest struct {
	Detail string `json:"detail" binding:"required"` // Address text
}

// ListAddressesHandler returns the caller's addresses and default
func ListAddressesHandler(addresses *service.AddressRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		book, err := addresses.ListAddresses(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, book)
	}
}

// AddAddressHandler adds an address for the caller
func AddAddressHandler(addresses *service.AddressRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		addr, err := addresses.AddAddress(c.Request.Context(), middleware.UserID(c), req.Detail)
		if err != nil {
			fail(c, err, addr)
			return
		}
		respond(c, http.StatusCreated, addr)
	}
}

// UpdateAddressHandler edits one of the caller's addresses
func UpdateAddressHandler(addresses *service.AddressRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		addr, err := addresses.UpdateAddress(c.Request.Context(), middleware.UserID(c), c.Param("addressId"), req.Detail)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, addr)
	}
}

// SetDefaultAddressHandler makes an owned address the caller's default
func SetDefaultAddressHandler(addresses *service.AddressRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := addresses.SetDefaultAddress(c.Request.Context(), middleware.UserID(c), c.Param("addressId")); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, nil)
	}
}

// DeleteAddressHandler removes one of the caller's addresses
func DeleteAddressHandler(addresses *service.AddressRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := addresses.DeleteAddress(c.Request.Context(), middleware.UserID(c), c.Param("addressId")); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, nil)
	}
}
