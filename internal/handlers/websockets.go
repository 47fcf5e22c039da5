package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	minInterval      = 10 * time.Millisecond
	maxInterval      = time.Minute
	maxIntervalMilli = 60_000

	msgDashboard  = "dashboard"
	msgZoneStatus = "zone_status"
	msgError      = "error"
)

// wsEnvelope is the frame written to stream clients.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	// the stream is read-only and served next to the API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect streams the dashboard, or a single zone with ?zone=<id>, every interval.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	zone, err := strconv.Atoi(c.DefaultQuery("zone", "0"))
	if err != nil || zone < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidZoneID})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendStatus(ctx, conn, zone); err != nil {
		h.log.Infow("ws_write_failed_initial", "zone_id", zone, "err", err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := h.sendStatus(ctx, conn, zone); err != nil {
				h.log.Infow("ws_write_failed", "zone_id", zone, "err", err)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 within bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return max(time.Duration(v)*time.Millisecond, minInterval)
		}
	}
	return defaultInterval
}

// startReader drains incoming frames so control messages are handled and closure detected.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// sendStatus writes one frame. A lookup failure is reported to the client as an error frame
// and returned so the stream ends.
func (h *Handler) sendStatus(ctx context.Context, conn *websocket.Conn, zone int) error {
	var (
		env wsEnvelope
		err error
	)
	if zone > 0 {
		env.Type = msgZoneStatus
		env.Data, err = h.services.Status(ctx, zone)
	} else {
		env.Type = msgDashboard
		env.Data, err = h.services.Dashboard(ctx)
	}
	if err != nil {
		h.log.Errorw("ws_status_failed", "zone_id", zone, "err", err)
		env = wsEnvelope{Type: msgError, Error: err.Error()}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if werr := conn.WriteJSON(env); werr != nil {
		return werr
	}
	return err
}
