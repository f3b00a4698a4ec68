package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hamzat06/esk-sub000/docs/swagger"
	"github.com/hamzat06/esk-sub000/internal/api"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/db"
	"github.com/hamzat06/esk-sub000/internal/handlers"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/services"
	"github.com/hamzat06/esk-sub000/internal/tasks"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// @title ChopNow API
// @version 1.0
// @description Ordering and back-office API for the ChopNow food shop
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logger := logger.New("chopnow")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			stdlog.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := db.Connect(cfg); err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection: %v", err)
		}
	}()

	gdb := db.GetDB()

	// Task infrastructure: client for enqueuing, server for processing,
	// scheduler for the periodic sweeps.
	taskClient := tasks.NewTaskClient(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	defer taskClient.Close()

	tasks.RegisterEventHandlers(taskClient)

	taskHandler := tasks.NewTaskHandler(gdb, cfg, taskClient)
	taskServer := tasks.NewServer(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Worker.Concurrency,
		taskHandler,
		logger,
	)

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	go func() {
		if err := taskServer.Start(serverCtx); err != nil {
			_ = logger.Error("Task server error", err)
		}
	}()

	taskScheduler := tasks.NewScheduler(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		logger,
	)

	go func() {
		if err := taskScheduler.Start(); err != nil {
			_ = logger.Error("Task scheduler error", err)
		}
	}()

	// Product images are optional: with no S3 credentials the shop runs
	// without images instead of refusing to start.
	if cfg.S3.AccessKey != "" {
		s3Service, err := services.NewS3Service(
			cfg.S3.BucketName,
			cfg.S3.Endpoint,
			cfg.S3.Region,
			cfg.S3.AccessKey,
			cfg.S3.SecretKey,
		)
		if err != nil {
			stdlog.Fatalf("Failed to initialize S3 service: %v", err)
		}
		models.RegisterImageURLGenerator(s3Service)
		handlers.RegisterImageStorage(s3Service)
	} else {
		logger.Warn("S3 credentials not set, product images disabled")
	}

	apiServer := api.NewServer(cfg, gdb)
	go func() {
		swagger.SwaggerInfo.Title = "ChopNow API Documentation"
		swagger.SwaggerInfo.Description = "Ordering and back-office API for the ChopNow food shop"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.Host = cfg.Server.PublicURL
		swagger.SwaggerInfo.Schemes = []string{"http", "https"}

		logger.Success("API server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := apiServer.Start(); err != nil {
			_ = logger.Error("API server error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taskScheduler.Stop()
	taskServer.Shutdown()
	serverCancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		_ = logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Servers shutdown gracefully")
}
