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

	"github.com/veissa/tiredOfLife/config"
	"github.com/veissa/tiredOfLife/internal/app/controller"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/internal/app/service"
	"github.com/veissa/tiredOfLife/internal/db"
	"github.com/veissa/tiredOfLife/internal/middleware"
	"github.com/veissa/tiredOfLife/internal/router"
	"github.com/veissa/tiredOfLife/internal/scheduler"
	"github.com/veissa/tiredOfLife/internal/storage"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"github.com/veissa/tiredOfLife/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := cfg.Server.LogFormat
	if cfg.IsDevelopment() {
		logLevel = "debug"
		if logFormat == "" {
			logFormat = "console"
		}
	}
	if logFormat == "" {
		logFormat = "json"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: cfg.IsDevelopment(),
	})

	logger.Info("Starting community market API", logger.Fields{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"upload_store": cfg.Upload.Driver,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	ctx := context.Background()

	store, err := newFileStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", err)
	}

	// Both stay nil interfaces when redis is disabled.
	var revoker service.TokenRevoker
	var blacklist middleware.TokenBlacklist
	if cfg.Redis.Enabled {
		bl, err := redis.Connect(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", err, logger.Fields{"addr": cfg.Redis.Addr()})
		}
		defer bl.Close()
		revoker, blacklist = bl, bl
	} else {
		logger.Warn("Redis disabled, logged out tokens stay valid until expiry")
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	producerRepo := repository.NewProducerRepository(db.GetDB())
	customerRepo := repository.NewCustomerRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	authService := service.NewAuthService(
		db.GetDB(),
		userRepo,
		producerRepo,
		customerRepo,
		cfg.JWT.Secret,
		cfg.JWT.Expiry,
		revoker,
	)
	producerService := service.NewProducerService(producerRepo)
	productService := service.NewProductService(productRepo, producerRepo)
	customerService := service.NewCustomerService(customerRepo)
	pickupService := service.NewPickupService(producerRepo)

	uploader := storage.NewImageUploader(store, cfg.Upload.MaxBytes)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewProducerController(producerService, uploader),
		controller.NewProductController(productService, uploader),
		controller.NewCustomerController(customerService),
		controller.NewPickupController(pickupService),
		controller.NewUploadController(store),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist),
		cfg,
	)

	if cfg.Scheduler.UploadSweepEnabled {
		sweeper := scheduler.NewUploadSweepScheduler(
			store,
			cfg.Scheduler.UploadSweepSchedule,
			cfg.Scheduler.UploadSweepGrace,
			producerRepo,
			productRepo,
		)
		if err := sweeper.Start(); err != nil {
			logger.Fatal("Failed to start upload sweep scheduler", err)
		}
		defer sweeper.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", logger.Fields{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}

func newFileStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	if cfg.Upload.Driver == config.UploadDriverS3 {
		s3, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	local, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}
	return local, nil
}
