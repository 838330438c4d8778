// Package api exposes the ingestion service over HTTP: liveness, a manual
// run trigger, and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
)

// Default timeout values for the HTTP server.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port  int
	Debug bool
}

// Server wraps the HTTP server with lifecycle management.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger logger.Logger
}

// NewServer builds the router with standard middleware and service routes.
func NewServer(handler *Handler, gatherer prometheus.Gatherer, cfg ServerConfig, log logger.Logger) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))

	SetupRoutes(router, handler, gatherer)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	return &Server{
		router: router,
		server: httpServer,
		logger: log,
	}
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, gatherer prometheus.Gatherer) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		ingest := v1.Group("/ingest")
		{
			ingest.POST("/run", handler.RunIngestion) // POST /api/v1/ingest/run
		}
	}
}

// Router returns the underlying Gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server and blocks until shutdown or error.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", logger.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
