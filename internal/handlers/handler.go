package handlers

import (
	"controllerboard/internal/logger"
	"controllerboard/internal/service"
	"controllerboard/internal/telemetry"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *telemetry.Metrics
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// WithMetrics records request latency and serves /metrics.
func (h *Handler) WithMetrics(m *telemetry.Metrics) *Handler {
	h.metrics = m
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	// The path boards poll; the body is plain text, one command per line.
	router.GET("/actions/:board/", h.boardMiddleware, h.serveActions)

	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerBoardRoutes(api)
		h.registerLogRoutes(api)
		api.GET("/status", h.getStatus)
	}
}

func (h *Handler) registerBoardRoutes(api *gin.RouterGroup) {
	board := api.Group("/boards/:board", h.boardMiddleware)
	{
		// Body example: {"actions":[{"port":1,"minutes":5}],"sleep_minutes":90}
		board.PUT("/plan", h.putPlan)
		board.GET("/plan", h.getPlan)
		board.DELETE("/plan", h.deletePlan)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
