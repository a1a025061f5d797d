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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fieldside/squadforge/internal/api/handlers"
	"github.com/fieldside/squadforge/internal/cache"
	"github.com/fieldside/squadforge/internal/config"
	"github.com/fieldside/squadforge/internal/storage"
	"github.com/fieldside/squadforge/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	logger.WithService("squadforge").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
		"squad_size":  cfg.SquadSize,
		"budget":      cfg.Budget,
	}).Info("Starting squad optimization service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Candidate storage is optional: inline pools still optimize without it.
	var (
		db   *storage.DB
		repo *storage.CandidateRepository
	)
	if cfg.DatabaseURL != "" {
		db, err = storage.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			logger.WithService("squadforge").WithError(err).Warn("Candidate storage unavailable, dataset requests will fail")
		} else {
			defer db.Close()
			repo = storage.NewCandidateRepository(db)
		}
	}

	var (
		redisClient  *redis.Client
		cacheService *cache.RosterCacheService
	)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithService("squadforge").Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithService("squadforge").WithError(err).Warn("Redis unavailable, result caching disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
			cacheService = cache.NewRosterCacheService(redisClient, structuredLogger)
		}
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	optimizationHandler := handlers.NewOptimizationHandler(repo, cacheService, cfg, structuredLogger)
	lineupHandler := handlers.NewLineupHandler(cfg, structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, redisClient, structuredLogger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/roster/optimize", optimizationHandler.OptimizeRoster)
		apiV1.POST("/roster/validate", optimizationHandler.ValidateRequest)
		apiV1.GET("/roster/cache-status", optimizationHandler.GetCacheStatus)

		apiV1.POST("/lineup/select", lineupHandler.SelectLineup)
		apiV1.GET("/lineup/formations", lineupHandler.ListFormations)
	}

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithService("squadforge").WithField("port", cfg.Port).Info("Squad optimization service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("squadforge").Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("squadforge").Info("Shutting down squad optimization service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("squadforge").Fatalf("Service forced to shutdown: %v", err)
	}

	logger.WithService("squadforge").Info("Squad optimization service exited")
}
