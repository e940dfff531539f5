package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cravings/backend/config"
	"github.com/pageza/cravings/backend/internal/router"
	"github.com/pageza/cravings/backend/internal/service"
)

// writeSlack is added on top of the worst case completion time
const writeSlack = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger logrus.FieldLogger
}

// New creates a new server instance
func New(cfg *config.Config, recipes service.IRecipeService, logger logrus.FieldLogger) *Server {
	engine := router.SetupRouter(cfg.CORSOrigins, recipes, logger)

	// A handler may spend every attempt and wait of one completion call before it writes
	policy := service.CompletionPolicy{
		Timeout:    cfg.CompletionTimeout,
		MaxRetries: cfg.CompletionMaxRetries,
		Backoff:    cfg.CompletionBackoff,
	}
	writeTimeout := policy.MaxDuration() + writeSlack

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until the server is shut down
func (s *Server) Start() error {
	s.logger.WithField("addr", s.http.Addr).Info("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
