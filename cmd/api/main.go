package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/config"
	"github.com/pageza/recipe-hub/backend/internal/api"
	"github.com/pageza/recipe-hub/backend/internal/database"
	"github.com/pageza/recipe-hub/backend/internal/middleware"
	"github.com/pageza/recipe-hub/backend/internal/server"
	"github.com/pageza/recipe-hub/backend/internal/service"
	"github.com/pageza/recipe-hub/backend/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	setupLogging(cfg)

	ctx := context.Background()

	recipeStore, err := store.Open(ctx, store.Options{
		Type:     cfg.StorageType,
		URL:      cfg.DatabaseURL,
		Database: cfg.DatabaseName,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open recipe store")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, continuing without rate limiting and catalog cache")
			redisClient = nil
		}
	}

	var images service.ImageStore
	if cfg.S3BucketName != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			logrus.WithError(err).Warn("S3 unavailable, inline images will be stored as given")
		} else {
			if err := s3Config.SetupBucketPolicy(ctx); err != nil {
				logrus.WithError(err).Warn("Failed to apply bucket policy")
			}
			images = service.NewS3ImageStore(s3Config)
		}
	}

	if !cfg.SpoonacularConfigured() {
		logrus.Warn("SPOONACULAR_API_KEY is not set, the discovery proxy will answer with an error")
	}

	deps := api.Dependencies{
		Recipes:   service.NewRecipeService(recipeStore, images),
		Discovery: service.NewDiscoveryService(cfg, redisClient),
	}
	if redisClient != nil && cfg.RateLimitPerMinute > 0 {
		deps.DiscoveryLimiter = middleware.NewDiscoveryRateLimiter(redisClient, cfg.RateLimitPerMinute)
		deps.WriteLimiter = middleware.NewWriteRateLimiter(redisClient, cfg.RateLimitPerMinute)
	}

	srv := server.New(cfg, deps)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logrus.WithError(err).Fatal("Server error")
		}
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("Received signal")
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown error")
	}
	if err := recipeStore.Close(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Failed to close recipe store")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logrus.Info("Server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if config.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}
}
