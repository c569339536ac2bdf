package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // as_of parsing

	"shop_backend/internal/apperr" // Error kinds

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Response is the envelope of every JSON reply
type Response struct {
	Code    int    `json:"code"`              // HTTP status code
	Message string `json:"message"`           // "ok" or the error message
	Data    any    `json:"data"`              // Payload
	Partial bool   `json:"partial,omitempty"` // Set when a multi-document write only partly applied
}

// statusOf maps an error kind to its HTTP status
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidArgument, apperr.KindNoValidItems:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindIllegalTransition, apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respond writes a success envelope
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: status, Message: "ok", Data: data})
}

// badRequest writes a 400 envelope for malformed input
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg})
}

// fail writes the envelope for err. partialData is returned to the client when err
// is a PartialSuccess.
func fail(c *gin.Context, err error, partialData ...any) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	resp := Response{Code: status, Message: err.Error()}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		resp.Message = "Internal server error" // Unclassified errors are not shown
	}
	if kind == apperr.KindPartialSuccess {
		resp.Partial = true
		if len(partialData) > 0 {
			resp.Data = partialData[0]
		}
	}
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"kind":  kind.String(),
			"error": err.Error(),
		}).Error("Request failed")
	}
	c.JSON(status, resp)
}

// pageParams reads page and page_size; the store clamps them further
func pageParams(c *gin.Context) (int, int) {
	page := 1      // Default page number
	pageSize := 10 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// asOfParam reads the optional as_of bound of a listing
func asOfParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
