package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"adgen_backend/api"
	"adgen_backend/core"
	"adgen_backend/db"
	"adgen_backend/imagegen"
	"adgen_backend/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

// run holds the real main logic so deferred cleanup executes before the
// process exits with a code.
func run() int {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Note: .env file not loaded: %v\n", err)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "app.log"
	}

	// Initialize structured logger early
	logger, err := logging.NewLogger(isDevelopment, logFile)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Load configuration
	config, err := core.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", zap.Error(err))
		return core.ExitCodeError
	}

	// Run startup validation before heavy operations
	result := core.ValidateStartup(config, os.Stdout)
	if !result.Success() {
		logger.Error("Startup validation failed")
		return core.ExitCodeError
	}

	logger.Info("Configuration loaded",
		zap.String("host", config.Host),
		zap.Int("image_port", config.ImagePort),
		zap.Int("ad_port", config.AdPort),
		zap.String("image_db", config.ImageDBPath),
		zap.String("ad_db", config.AdDBPath),
		zap.String("model", config.OpenAIImageModel),
		zap.Bool("mock_mode", config.MockMode()),
		zap.Duration("ai_timeout", config.AITimeout),
		zap.Bool("dev_mode", isDevelopment),
	)

	// Open the two databases and run their migrations
	imageDB, err := db.NewDatabase(config.ImageDBPath, db.ImageMigrations)
	if err != nil {
		logger.Error("Failed to open image database", zap.Error(err))
		return core.ExitCodeError
	}
	defer imageDB.Close()

	adDB, err := db.NewDatabase(config.AdDBPath, db.AdMigrations)
	if err != nil {
		logger.Error("Failed to open ad database", zap.Error(err))
		return core.ExitCodeError
	}
	defer adDB.Close()

	images := db.NewImageRepository(imageDB)
	companies := db.NewCompanyRepository(adDB)
	ads := db.NewAdRepository(adDB)

	// Build the shared generation service. No API key means the provider
	// stays nil and the service runs in permanent mock mode.
	var provider imagegen.Provider
	if !config.MockMode() {
		p, err := imagegen.NewOpenAIProvider(config)
		if err != nil {
			logger.Error("Failed to initialize image provider", zap.Error(err))
			return core.ExitCodeError
		}
		provider = p
	} else {
		logger.Warn("No API key configured, running in mock mode")
	}
	generator := imagegen.NewService(provider, config.OpenAIImageModel, logger.Named("imagegen"))

	// Wire the two HTTP servers
	imageConfig := api.DefaultServerConfig(config.ImagePort)
	imageConfig.Host = config.Host
	imageServer := api.NewServer("image-api", imageConfig,
		api.NewImageHandlers(generator, images, config.DefaultImageSize, config.HistoryLimit, logger.Named("image-api")),
		logger)

	adConfig := api.DefaultServerConfig(config.AdPort)
	adConfig.Host = config.Host
	adServer := api.NewServer("ad-api", adConfig,
		api.NewAdHandlers(generator, companies, ads, logger.Named("ad-api")),
		logger)

	serverErrors := make(chan error, 2)
	go func() { serverErrors <- imageServer.Start() }()
	go func() { serverErrors <- adServer.Start() }()

	// Wait for a fatal server error or a shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := core.ExitCodeSuccess
	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			exitCode = core.ExitCodeError
		}
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		if sig == syscall.SIGTERM {
			exitCode = core.ExitCodeSIGTERM
		} else {
			exitCode = core.ExitCodeSIGINT
		}
	}

	shutdownCtx := context.Background()
	if err := imageServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Image server shutdown error", zap.Error(err))
	}
	if err := adServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ad server shutdown error", zap.Error(err))
	}

	logger.Info("Shutdown complete", zap.String("exit", core.ExitCodeName(exitCode)))
	return exitCode
}
