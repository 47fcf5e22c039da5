package handlers

import (
	"net/http"

	_ "zone_heating/docs"
	"zone_heating/internal/logger"
	"zone_heating/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
}

// NewHandler constructs a new HTTP handler with dependencies.
// metrics is served on /metrics when non-nil.
func NewHandler(services *service.Service, log *logger.Logger, metrics http.Handler) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log, metrics: metrics}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live dashboard stream, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerZoneRoutes(api)
		h.registerScheduleRoutes(api)
		h.registerOverrideRoutes(api)
		h.registerSettingsRoutes(api)
		h.registerLogRoutes(api)
		api.GET("/dashboard", h.getDashboard)
	}
}

func (h *Handler) registerZoneRoutes(api *gin.RouterGroup) {
	zones := api.Group("/zones")
	{
		zones.GET("", h.listZones)
		zones.GET("/:id/status", h.getZoneStatus)
		zones.GET("/:id/next-event", h.getNextEvent)
		zones.GET("/:id/upcoming", h.getUpcoming)
		zones.GET("/:id/schedule", h.getWeeklySchedule)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	api.GET("/schedules/grouped", h.getGroupedSchedules)
}

func (h *Handler) registerOverrideRoutes(api *gin.RouterGroup) {
	// Body example: {"zone":1,"delta":0.5}
	api.POST("/overrides/adjust", h.adjustOverride)
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings")
	{
		settings.GET("", h.getSettings)
		settings.PUT("", h.updateSettings)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
		logs.GET("/export", h.exportLogs)
	}
}
