package handlers

import (
	"errors"
	"net/http"

	"zone_heating/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInternal        = "internal error"
	errInvalidBodyPref = "invalid body: "
	errInvalidZoneID   = "invalid zone id"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps service errors to HTTP codes. Only unexpected errors are logged.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrZoneNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, service.ErrInvalidSetting):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}
