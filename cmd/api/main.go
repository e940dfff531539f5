package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cravings/backend/config"
	"github.com/pageza/cravings/backend/internal/logging"
	"github.com/pageza/cravings/backend/internal/server"
	"github.com/pageza/cravings/backend/internal/service"
)

func main() {
	// Local development keeps secrets in .env; deployed environments inject them
	if config.IsDevelopment() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logrus.WithError(err).Fatal("Failed to load .env file")
		}
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithField("environment", cfg.Environment)

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	llm, err := service.NewLLMService(service.LLMConfig{
		APIKey: cfg.LLMAPIKey,
		APIURL: cfg.LLMAPIURL,
		Model:  cfg.LLMModel,
		Policy: service.CompletionPolicy{
			Timeout:    cfg.CompletionTimeout,
			MaxRetries: cfg.CompletionMaxRetries,
			Backoff:    cfg.CompletionBackoff,
		},
	}, logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to create completion client")
	}
	recipes := service.NewRecipeService(llm, cfg.SuggestionTemperature, logger)

	// Create and start server
	srv := server.New(cfg, recipes, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.WithError(err).Fatal("Server error")
		}
		return
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received signal")
	}

	// Gracefully shutdown the server
	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server shutdown error")
	}
	log.Info("Server stopped")
}
