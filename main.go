package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/divsim/config"
	_ "github.com/epeers/divsim/docs"
	"github.com/epeers/divsim/internal/cache"
	"github.com/epeers/divsim/internal/handlers"
	"github.com/epeers/divsim/internal/middleware"
	"github.com/epeers/divsim/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Dividend Portfolio Projector API
// @version 1.0
// @description Projects dividend income and portfolio value year by year from uploaded holdings.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	// Initialize services
	simulationSvc := services.NewSimulationService(services.SimulationOptions{
		SkipInvalidRows: cfg.InvalidRowPolicy == config.RowPolicySkip,
		Parallel:        cfg.ParallelSimulation,
	})

	// Initialize cache; a zero TTL turns it off
	var resultCache *cache.MemoryCache
	if cfg.ResultCacheTTL > 0 {
		resultCache = cache.NewMemoryCache(cfg.ResultCacheTTL)
	}

	// Initialize handlers
	simulationHandler := handlers.NewSimulationHandler(simulationSvc, resultCache)

	// Setup Gin router
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20

	// Apply global middleware
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Simulation routes
	router.POST("/simulations", simulationHandler.Simulate)
	router.POST("/simulations/json", simulationHandler.SimulateHoldings)
	router.POST("/simulations/summary.csv", simulationHandler.DownloadSummary)
	router.POST("/simulations/details.csv", simulationHandler.DownloadDetails)

	// API docs
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s (invalid rows: %s, parallel: %t)", cfg.Port, cfg.InvalidRowPolicy, cfg.ParallelSimulation)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
