package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldtech/workorder-be/internal/api/handler"
	"github.com/fieldtech/workorder-be/internal/api/router"
	"github.com/fieldtech/workorder-be/internal/api/storage"
	"github.com/fieldtech/workorder-be/internal/config"
	"github.com/fieldtech/workorder-be/internal/mailer"
	"github.com/fieldtech/workorder-be/internal/render"
	"github.com/fieldtech/workorder-be/internal/submission"
	"github.com/fieldtech/workorder-be/shared/logger"
	"github.com/fieldtech/workorder-be/shared/objectstore"
	"github.com/fieldtech/workorder-be/shared/postgresql"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting work-order API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Initialize PostgreSQL client
	dbClient, err := initPostgreSQL(&cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	appLogger.Info("Database connection established")

	// Initialize object storage client
	blobClient, err := objectstore.NewClient(&objectstore.Config{
		Endpoint:      cfg.ObjectStorage.Endpoint,
		AccessKey:     cfg.ObjectStorage.AccessKey,
		SecretKey:     cfg.ObjectStorage.SecretKey,
		UseSSL:        cfg.ObjectStorage.UseSSL,
		Bucket:        cfg.ObjectStorage.Bucket,
		PublicBaseURL: cfg.ObjectStorage.PublicBaseURL,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Wire the submission workflow
	recordStorage := storage.NewStorage(dbClient)

	renderer := render.NewChromeRenderer(render.Config{
		ChromePath: cfg.Render.ChromePath,
		NoSandbox:  cfg.Render.NoSandbox,
		Timeout:    cfg.Render.Timeout,
	}, appLogger.Logger)

	dispatcher := mailer.NewSendGridDispatcher(mailer.Config{
		APIKey:      cfg.Email.APIKey,
		SenderEmail: cfg.Email.SenderEmail,
		SenderName:  cfg.Email.SenderName,
	}, appLogger.Logger)

	orchestrator := submission.NewOrchestrator(submission.Config{
		CompanyEmail: cfg.Email.CompanyEmail,
		CallTimeout:  cfg.Workflow.CallTimeout,
	}, appLogger.Logger, blobClient, recordStorage, renderer, dispatcher)

	// Initialize router
	r := initRouter(cfg.App.Environment, appLogger.Logger, orchestrator, recordStorage)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("Work-order API service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)

	cleanup := func() {
		cancel()
		if dbClient != nil {
			dbClient.Close()
		}
	}
	defer cleanup()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, logger *slog.Logger, submitter handler.Submitter, records handler.RecordReader) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	handlerDeps := &handler.Dependencies{
		Logger:    logger,
		Submitter: submitter,
		Records:   records,
	}

	return router.SetupRouter(handlerDeps)
}
