package handlers

import (
	"net/http"
	"strconv"
	"time"

	"zone_heating/internal/engine"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	maxUpcomingHorizon = 7 * 24 * time.Hour
)

// NextEventResponse is the body of GET /api/v1/zones/{id}/next-event.
type NextEventResponse struct {
	// Nil when the zone has nothing scheduled.
	NextEvent *engine.Event `json:"next_event"`
	// Target in effect after the next event.
	NextTarget float64 `json:"next_target" example:"21"`
}

// zoneID reads the :id path parameter and writes a 400 on failure.
func zoneID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidZoneID})
		return 0, false
	}
	return id, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List zones
// @Tags         zones
// @Produce      json
// @Success      200  {array}   models.Zone
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/zones [get]
// @Security     BearerAuth
func (h *Handler) listZones(c *gin.Context) {
	zones, err := h.services.Zones(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "zones_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

// @Summary      Zone status
// @Description  Resolved target, its source and the next transition of one zone
// @Tags         zones
// @Produce      json
// @Param        id   path      int  true  "Zone ID"
// @Success      200  {object}  service.ZoneStatus
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/zones/{id}/status [get]
// @Security     BearerAuth
func (h *Handler) getZoneStatus(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	st, err := h.services.Status(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, "zone_status_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Next event
// @Tags         zones
// @Produce      json
// @Param        id   path      int  true  "Zone ID"
// @Success      200  {object}  NextEventResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/zones/{id}/next-event [get]
// @Security     BearerAuth
func (h *Handler) getNextEvent(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ev, err := h.services.NextEvent(ctx, id)
	if err != nil {
		h.respondServiceError(c, "zone_next_event_failed", err, "zone_id", id)
		return
	}
	target, err := h.services.NextTarget(ctx, id)
	if err != nil {
		h.respondServiceError(c, "zone_next_target_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, NextEventResponse{NextEvent: ev, NextTarget: target})
}

// @Summary      Upcoming events
// @Description  Every transition within the horizon (Go duration, default 24h, at most 168h)
// @Tags         zones
// @Produce      json
// @Param        id       path      int     true   "Zone ID"
// @Param        horizon  query     string  false  "Look-ahead window"  example(12h)
// @Success      200      {object}  map[string]interface{}  "count, events"
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/v1/zones/{id}/upcoming [get]
// @Security     BearerAuth
func (h *Handler) getUpcoming(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	var horizon time.Duration
	if s := c.Query("horizon"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 || d > maxUpcomingHorizon {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid horizon; use a duration up to 168h"})
			return
		}
		horizon = d
	}
	events, err := h.services.Upcoming(c.Request.Context(), id, horizon)
	if err != nil {
		h.respondServiceError(c, "zone_upcoming_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

// @Summary      Weekly schedule
// @Description  Windows of one zone per weekday, Monday first, and the eco temperature
// @Tags         schedules
// @Produce      json
// @Param        id   path      int  true  "Zone ID"
// @Success      200  {object}  service.WeeklySchedule
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/zones/{id}/schedule [get]
// @Security     BearerAuth
func (h *Handler) getWeeklySchedule(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	week, err := h.services.Weekly(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, "zone_schedule_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, week)
}

// @Summary      Grouped schedules
// @Description  Windows sharing start, end, target and priority merged across days and zones
// @Tags         schedules
// @Produce      json
// @Success      200  {array}   service.ScheduleGroup
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/schedules/grouped [get]
// @Security     BearerAuth
func (h *Handler) getGroupedSchedules(c *gin.Context) {
	groups, err := h.services.Grouped(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "schedules_grouped_failed", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// @Summary      Dashboard
// @Description  Status of every zone
// @Tags         zones
// @Produce      json
// @Success      200  {array}   service.ZoneStatus
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/dashboard [get]
// @Security     BearerAuth
func (h *Handler) getDashboard(c *gin.Context) {
	statuses, err := h.services.Dashboard(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "dashboard_failed", err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
