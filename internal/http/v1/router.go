// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"tatausaha/internal/http/v1/handlers"
	"tatausaha/internal/http/v1/middleware"
	"tatausaha/internal/inventory"
	"tatausaha/internal/numbering"
	"tatausaha/internal/sales"
	"tatausaha/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger *logger.Logger

	// Pool is the backend connection, used by health checks only;
	// domain services go through the dispatcher.
	Pool *pgxpool.Pool

	TokenParser *middleware.TokenParser

	Numbering *numbering.Service
	Inventory *inventory.Service
	Sales     *sales.Service

	Version string
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

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	api.Use(middleware.Actor(cfg.TokenParser))
	{
		letterHandler := handlers.NewLetterHandler(base, cfg.Numbering)
		letters := api.Group("/letters")
		{
			letters.GET("", middleware.RequireCapability("surat.view"), letterHandler.List)
			letters.POST("", middleware.RequireCapability("surat.generate"), letterHandler.Create)
			letters.GET("/stats", middleware.RequireCapability("surat.view"), letterHandler.Stats)
			letters.GET("/codes", middleware.RequireCapability("surat.view"), letterHandler.Catalog)
			letters.GET("/settings", middleware.RequireCapability("surat.settings"), letterHandler.Settings)
			letters.PUT("/settings", middleware.RequireCapability("surat.settings"), letterHandler.UpdateSettings)
		}

		inventoryHandler := handlers.NewInventoryHandler(base, cfg.Inventory)
		inv := api.Group("/inventory")
		{
			inv.GET("", middleware.RequireCapability("inventory.view"), inventoryHandler.ListItems)
			inv.POST("", middleware.RequireCapability("inventory.add_new_item"), inventoryHandler.CreateItem)
			inv.POST("/stock", middleware.RequireCapability("inventory.add_stock"), inventoryHandler.AddStock)
		}
		ledger := api.Group("/ledger")
		{
			ledger.GET("", middleware.RequireCapability("inventory.view"), inventoryHandler.ListLedger)
			ledger.GET("/report", middleware.RequireCapability("report.inventory_log"), inventoryHandler.Report)
			ledger.POST("/corrections", middleware.RequireCapability("inventory.correct_stock"), inventoryHandler.Correct)
		}

		salesHandler := handlers.NewSalesHandler(base, cfg.Sales)
		salesGroup := api.Group("/sales")
		{
			salesGroup.GET("", middleware.RequireCapability("sales.view"), salesHandler.List)
			salesGroup.POST("", middleware.RequireCapability("sales.input"), salesHandler.Create)
			salesGroup.PUT("/:id", middleware.RequireCapability("sales.edit"), salesHandler.Edit)
			salesGroup.DELETE("/:id", middleware.RequireCapability("sales.delete"), salesHandler.Delete)
		}
		trash := api.Group("/trash")
		{
			trash.GET("", middleware.RequireCapability("settings.trash"), salesHandler.Trash)
			trash.POST("/:id/restore", middleware.RequireCapability("settings.trash"), salesHandler.Restore)
		}
	}

	return router
}
