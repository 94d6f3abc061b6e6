package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annvu/foodvision/internal/api"
	"github.com/annvu/foodvision/internal/config"
	"github.com/annvu/foodvision/internal/logger"
	"github.com/annvu/foodvision/internal/repository"
	"github.com/annvu/foodvision/internal/service"
	"github.com/annvu/foodvision/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	mealRepo := repository.NewMealRepository(db)

	// Full-resolution image archive is optional; without it meals keep
	// only the base64 thumbnail stored in the database.
	var objectStorage storage.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3Storage(&storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize object storage")
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		objectStorage = s3Storage
	}

	classifier := service.NewHTTPClassifier(&service.ClassifierConfig{
		Endpoint: cfg.Classifier.Endpoint,
		APIKey:   cfg.Classifier.APIKey,
		Timeout:  cfg.Classifier.Timeout,
	})

	recognitionService := service.NewRecognitionService(classifier, appLogger)
	mealService := service.NewMealService(mealRepo, objectStorage, appLogger)

	router := api.SetupRouter(recognitionService, mealService, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
