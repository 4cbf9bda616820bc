package handlers

import (
	"eld_tracker/internal/logger"
	"eld_tracker/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live HOS snapshot stream (HTTP upgrade), same port
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
		h.registerDriverRoutes(api)
		h.registerViolationRoutes(api)
	}
}

func (h *Handler) registerDriverRoutes(api *gin.RouterGroup) {
	drivers := api.Group("/drivers")
	{
		drivers.POST("", h.createDriver)
		drivers.GET("/:id", h.getDriver)
		drivers.GET("/:id/hos-status", h.getHOSStatus)
		// Body example: {"status":"driving","timestamp":"2025-03-10T14:00:00Z","location":"Tulsa, OK"}
		drivers.POST("/:id/duty-status", h.postDutyStatus)
		drivers.PATCH("/:id/duty-status/:event_id", h.amendDutyStatus)
		drivers.GET("/:id/daily-logs/:date", h.getDailyLog)
		drivers.GET("/:id/violations", h.listViolations)
	}
}

func (h *Handler) registerViolationRoutes(api *gin.RouterGroup) {
	violations := api.Group("/violations")
	{
		violations.POST("/:id/resolve", h.resolveViolation)
	}
}
