package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwhitfield/showroute/api/internal/config"
	"github.com/mwhitfield/showroute/api/internal/database"
	"github.com/mwhitfield/showroute/api/internal/handlers"
	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/middleware"
	"github.com/mwhitfield/showroute/api/internal/repository"
	"github.com/mwhitfield/showroute/api/internal/routing"
	"github.com/mwhitfield/showroute/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting ShowRoute API", map[string]interface{}{
		"version":     "0.1.0",
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Apply pending schema migrations
	if err := database.Migrate(ctx, cfg.Database); err != nil {
		log.Fatal("Failed to run database migrations", err, nil)
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Routing provider client
	provider := routing.NewClient(routing.ClientConfig{
		BaseURL:  cfg.Routing.BaseURL,
		APIKey:   cfg.Routing.APIKey,
		Timeout:  cfg.Routing.Timeout,
		CacheTTL: cfg.Routing.CacheTTL,
	}, log)

	// Initialize repository and service layers
	locationRepo := repository.NewLocationRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	tourRepo := repository.NewTourRepository(db)

	matrixService := services.NewMatrixService(locationRepo, metricRepo, provider, cfg.Routing.MaxConcurrency, log)
	filterService := services.NewFilterService(locationRepo, metricRepo, log)
	exportService := services.NewExportService(log)
	builderService := services.NewBuilderService(locationRepo, log)
	routeService := services.NewRouteService(provider, log)
	archiveService := services.NewArchiveService(tourRepo, log)

	// Initialize handlers
	matrixHandler := handlers.NewMatrixHandler(matrixService, filterService, exportService)
	tourHandler := handlers.NewTourHandler(builderService, routeService)
	archiveHandler := handlers.NewArchiveHandler(archiveService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		distances := v1.Group("/distances")
		{
			distances.GET("", matrixHandler.Query)
			distances.POST("/compute", matrixHandler.Compute)
			distances.POST("/filter", matrixHandler.Filter)
			distances.POST("/export", matrixHandler.ExportCSV)
		}

		tours := v1.Group("/tours")
		{
			tours.POST("/build", tourHandler.Build)
			tours.POST("/resolve", tourHandler.Resolve)
			tours.POST("", archiveHandler.Save)
			tours.GET("", archiveHandler.List)
			tours.GET("/:id", archiveHandler.Load)
			tours.PATCH("/:id", archiveHandler.Rename)
			tours.DELETE("/:id", archiveHandler.Delete)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
