package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"divscout/internal/config"
	"divscout/internal/database"
	"divscout/internal/dividend"
	"divscout/internal/handlers"
	"divscout/internal/logger"
	"divscout/internal/marketdata"
	"divscout/internal/metrics"
	"divscout/internal/middleware"
	"divscout/internal/scanner"
	"divscout/internal/scheduler"
	"divscout/internal/services"
	"divscout/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager and run migrations
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	assetService := services.NewAssetService(db)
	portfolioService := services.NewPortfolioService(db)

	// Scan pipeline: cached market data provider, classifier, worker pool
	provider := marketdata.NewCached(marketdata.NewYahooProvider(http.DefaultClient), appConfig.QuoteCacheTTL)
	classifier := dividend.NewClassifier(appConfig.GapBands)
	scanMetrics := metrics.NewManager()
	runner := scanner.NewRunner(provider, assetService, classifier, scanMetrics, appConfig.ScanWorkers, logger.Named("scanner"))

	// Initialize handlers
	assetHandler := handlers.NewAssetHandler(assetService)
	scanHandler := handlers.NewScanHandler(runner)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Register custom binding validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check and metrics endpoints
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(scanMetrics.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")

	// Scan routes
	v1.POST("/scan", scanHandler.Scan)

	// Asset routes
	assets := v1.Group("/assets")
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/stats", assetHandler.GetStats)
	assets.GET("/:ticker", assetHandler.GetAsset)
	assets.DELETE("/:ticker", assetHandler.DeleteAsset)
	assets.PUT("/:ticker/platforms", assetHandler.SetPlatforms)

	// Portfolio routes
	portfolios := v1.Group("/portfolios")
	portfolios.POST("", portfolioHandler.SavePortfolio)
	portfolios.GET("", portfolioHandler.ListPortfolios)
	portfolios.GET("/:name", portfolioHandler.GetPortfolio)
	portfolios.DELETE("/:name", portfolioHandler.DeletePortfolio)

	// Optional periodic rescan of every stored ticker
	if appConfig.ScanCron != "" {
		rescan := scheduler.New(runner, assetService, appConfig.ScanCron, logger.Named("scheduler"))
		if err := rescan.Start(); err != nil {
			return fmt.Errorf("failed to start rescan scheduler: %w", err)
		}
		defer rescan.Stop()
	}

	log.Infof("Starting divscout API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
