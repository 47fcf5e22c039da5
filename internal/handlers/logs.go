package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"zone_heating/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errZoneInvalid  = "invalid 'zone'; use a positive zone id"
	errLimitInvalid = "invalid 'limit'; use a positive number"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseLogFilter reads zone, source, from, to and limit. It writes a 400 and returns false on
// malformed input.
func parseLogFilter(c *gin.Context) (service.LogFilter, bool) {
	f := service.LogFilter{Source: c.Query("source")}
	var err error

	if qs := c.Query("zone"); qs != "" {
		if f.ZoneID, err = strconv.Atoi(qs); err != nil || f.ZoneID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errZoneInvalid})
			return f, false
		}
	}
	if qs := c.Query("limit"); qs != "" {
		if f.Limit, err = strconv.Atoi(qs); err != nil || f.Limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return f, false
		}
	}
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return f, false
		}
	}
	// a date-only 'to' covers that whole day
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return f, false
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	return f, true
}

// @Summary      List temperature logs
// @Description  Applied targets, oldest first. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' is end-of-day inclusive.
// @Tags         logs
// @Produce      json
// @Param        zone    query     int     false  "Zone ID"
// @Param        source  query     string  false  "Target source"  Enums(manual,schedule)
// @Param        from    query     string  false  "Start of range"  example(2025-08-01)
// @Param        to      query     string  false  "End of range"  example(2025-08-31)
// @Param        limit   query     int     false  "Maximum rows"
// @Success      200     {object}  map[string]interface{}  "count, logs"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f, ok := parseLogFilter(c)
	if !ok {
		return
	}
	logs, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.respondServiceError(c, "logs_list_failed", err, "zone_id", f.ZoneID, "from", f.From, "to", f.To, "source", f.Source)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(logs),
		"logs":  logs,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
