package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gestionale/docs/swagger"
	"gestionale/internal/api"
	"gestionale/internal/automation"
	"gestionale/internal/config"
	"gestionale/internal/db"
	"gestionale/internal/keys"
	"gestionale/internal/mailjobs"
	"gestionale/internal/records"
	"gestionale/internal/services"
	"gestionale/internal/tasks"
	"gestionale/internal/utils/logger"

	"github.com/joho/godotenv"
)

func main() {

	logger := logger.New("gestionale")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection: %v", err)
		}
	}()

	dbInstance := db.GetDB()

	// Queue client first: the job store schedules dispatches through it
	taskClient := tasks.NewTaskClient(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Mail.SweepCron,
	)
	defer taskClient.Close()

	jobStore := mailjobs.NewStore(dbInstance, taskClient)

	// The automation engine enqueues into the job store; the record
	// service runs the engine inline on every save
	engine := automation.NewEngine(
		automation.NewOverrideStore(dbInstance),
		jobStore,
		cfg.Mail.FromAddress,
		cfg.Mail.ReplyTo,
	)
	recordService := records.NewService(dbInstance, engine)
	keyStore := keys.NewStore(dbInstance, recordService)

	// Optional S3 archive for dispatched mail
	var archiver tasks.Archiver
	if cfg.Archive.BucketName != "" {
		archiveService, err := services.NewMailArchiveService(
			cfg.Archive.BucketName,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
		)
		if err != nil {
			logger.Warn("Mail archive disabled: %v", err)
		} else {
			archiver = archiveService
		}
	}

	taskHandler := tasks.NewTaskHandler(jobStore, taskClient, tasks.NewLogSender(), archiver)

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
			logger.Error("Task server error", err)
		}
	}()

	taskScheduler := tasks.NewScheduler(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Mail.SweepCron,
		logger,
	)

	go func() {
		if err := taskScheduler.Start(); err != nil {
			logger.Error("Task scheduler error", err)
		}
	}()

	apiServer := api.NewServer(cfg, dbInstance, recordService, keyStore, jobStore)
	go func() {
		swagger.SwaggerInfo.Title = "Gestionale API"
		swagger.SwaggerInfo.Description = "Access control and rule-automation API"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.BasePath = "/api/v1"

		logger.Success("API server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := apiServer.Start(); err != nil {
			logger.Error("API server error", err)
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
		logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Servers shutdown gracefully")
}
