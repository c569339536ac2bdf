package api

import (
	"net/http" // HTTP status codes
	"time"     // Export file naming

	"shop_backend/internal/domain"  // Order status
	"shop_backend/internal/export"  // Spreadsheet export
	"shop_backend/internal/service" // Services
	"shop_backend/internal/store"   // Order filters

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Request struct for status changes
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"` // Target status label
}

// ListUsersHandler pages through all users
func ListUsersHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pageParams(c)
		result, err := accounts.ListUsers(c.Request.Context(), page, pageSize)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, result)
	}
}

// DeleteUsersHandler removes users by id
func DeleteUsersHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		n, err := accounts.DeleteUsers(c.Request.Context(), req.IDs)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"deleted": n})
	}
}

// ListAllOrdersHandler pages through every order, optionally by status or user
func ListAllOrdersHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		listOrders(c, orders, c.Query("user"))
	}
}

// GetAnyOrderHandler returns any order
func GetAnyOrderHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler moves an order along its lifecycle
func UpdateOrderStatusHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, order)
	}
}

// ExportOrdersHandler downloads the matching orders as an xlsx workbook
func ExportOrdersHandler(orders *service.OrderEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.OrderFilter{
			UserID: c.Query("user"),
			Status: domain.OrderStatus(c.Query("status")),
		}
		if filter.Status != "" {
			if _, ok := domain.ParseOrderStatus(string(filter.Status)); !ok {
				badRequest(c, "Invalid order status")
				return
			}
		}
		list, err := orders.ExportOrders(c.Request.Context(), filter)
		if err != nil {
			fail(c, err)
			return
		}

		// Set response headers for download
		filename := "orders-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", export.ContentType)
		c.Status(http.StatusOK)
		if err := export.WriteOrders(c.Writer, list); err != nil {
			// Headers are gone; all that is left is to log
			logrus.WithField("error", err.Error()).Error("Failed to write order export")
		}
	}
}

// AuditUserHandler reports reference inconsistencies of a user
func AuditUserHandler(auditor *service.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := auditor.AuditUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, report)
	}
}

// RepairUserHandler repairs reference inconsistencies of a user
func RepairUserHandler(auditor *service.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := auditor.Repair(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, report)
	}
}
