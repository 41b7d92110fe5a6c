package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/influencehub/influencehub-backend/config"
	"github.com/influencehub/influencehub-backend/internal/app/controller"
	"github.com/influencehub/influencehub-backend/internal/app/repository"
	"github.com/influencehub/influencehub-backend/internal/app/service"
	"github.com/influencehub/influencehub-backend/internal/db"
	"github.com/influencehub/influencehub-backend/internal/middleware"
	"github.com/influencehub/influencehub-backend/internal/router"
	"github.com/influencehub/influencehub-backend/internal/storage"
	"github.com/influencehub/influencehub-backend/pkg/logger"
	"github.com/influencehub/influencehub-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
		FilePath:    cfg.Log.FilePath,
	})

	logger.Info("Starting InfluenceHub Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Reference data cache (optional)
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, reference data will not be cached", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redis.NewCache(redis.GetClient(), cfg.Redis.CacheTTL)
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	conn := db.GetDB()
	referenceRepo := repository.NewReferenceRepository(conn)
	influencerRepo := repository.NewInfluencerRepository(conn)
	accountRepo := repository.NewSocialAccountRepository(conn)

	// Initialize services
	referenceService := service.NewReferenceService(referenceRepo, cache)
	influencerService := service.NewInfluencerService(influencerRepo, accountRepo, referenceRepo, conn)
	adminService := service.NewAdminService(influencerRepo, accountRepo, referenceRepo)

	report, err := referenceService.SetupReferenceData()
	if err != nil {
		logger.Fatal("Failed to set up reference data", err)
	}
	logger.Info("Reference data ready", map[string]interface{}{
		"platforms_created":  report.Platforms,
		"statuses_created":   report.Statuses,
		"categories_created": report.Categories,
	})

	// Profile image uploads (optional)
	var uploadController *controller.UploadController
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(&cfg.S3)
		if err != nil {
			logger.Warn("S3 unavailable, profile image uploads disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			uploadController = controller.NewUploadController(s3Storage)
		}
	}

	// Initialize controllers
	influencerController := controller.NewInfluencerController(influencerService)
	referenceController := controller.NewReferenceController(referenceService)
	adminController := controller.NewAdminController(adminService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		influencerController,
		referenceController,
		adminController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
