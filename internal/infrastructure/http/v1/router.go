// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pickstock/internal/domain/customer"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/domain/shipment"
	"pickstock/internal/infrastructure/http/v1/handlers"
	"pickstock/internal/infrastructure/http/v1/middleware"
	"pickstock/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Ready is probed by the readiness endpoint; nil means always ready
	Ready func(c *gin.Context) error

	Inventory *inventory.Service
	Shipments *shipment.Service
	Customers *customer.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no actor context required)
	healthHandler := handlers.NewHealthHandler(cfg.Ready)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// API v1, scoped per company
	base := handlers.NewBaseHandler()
	company := router.Group("/api/v1/companies/:companyId")
	company.Use(middleware.Actor())
	{
		registerInventoryRoutes(company, base, cfg)
		registerCustomerRoutes(company, base, cfg)
		registerShipmentRoutes(company, base, cfg)
	}

	return router
}

func registerInventoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewInventoryHandler(base, cfg.Inventory)

	batches := rg.Group("/batches")
	{
		batches.GET("", handler.List)
		batches.POST("", handler.Create)
		batches.POST("/import", handler.Import)
		batches.GET("/summaries", handler.Summaries)
		batches.GET("/:id", handler.Get)
		batches.PUT("/:id", handler.Update)
		batches.DELETE("/:id", handler.Delete)
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewCustomerHandler(base, cfg.Customers)

	customers := rg.Group("/customers")
	{
		customers.GET("", handler.List)
		customers.POST("", handler.Create)
		customers.POST("/import", handler.Import)
		customers.GET("/:id", handler.Get)
		customers.PUT("/:id", handler.Update)
		customers.DELETE("/:id", handler.Delete)
	}
}

func registerShipmentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewShipmentHandler(base, cfg.Shipments, cfg.Customers)

	shipments := rg.Group("/shipments")
	{
		shipments.GET("", handler.List)
		shipments.POST("", handler.Create)
		shipments.GET("/:id", handler.Get)
		shipments.PUT("/:id", handler.UpdateDraft)
		shipments.DELETE("/:id", handler.Delete)
		shipments.GET("/:id/plan", handler.Plan)
		shipments.POST("/:id/items", handler.AddItem)
		shipments.PUT("/:id/lines", handler.EditLine)
		shipments.DELETE("/:id/lines", handler.RemoveLine)
		shipments.POST("/:id/confirm", handler.Confirm)
		shipments.POST("/:id/cancel", handler.Cancel)
		shipments.POST("/:id/revise", handler.Revise)
	}
}
