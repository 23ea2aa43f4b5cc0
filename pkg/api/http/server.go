package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aescanero/transrelay/internal/application/relay"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Translator is the relay operation served on /translate
type Translator interface {
	Translate(ctx context.Context, req relay.TranslationRequest) (*relay.TranslationResult, error)
}

// FeedHandler serves the live translation feed
type FeedHandler interface {
	HandleTranslationFeed(c *gin.Context)
}

// Server represents the HTTP API server
type Server struct {
	router *gin.Engine
	server *http.Server
	relay  Translator
	logger *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	// Addr is the listen address, e.g. ":5000"
	Addr   string
	Relay  Translator
	Logger *zap.Logger

	// Metrics records per-request metrics when set
	Metrics HTTPMetrics
	// Gatherer backs /metrics; nil uses the default Prometheus registry
	Gatherer prometheus.Gatherer
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(requestID())
	router.Use(requestLogger(logger))
	if cfg.Metrics != nil {
		router.Use(requestMetrics(cfg.Metrics))
	}
	router.Use(corsMiddleware())
	router.Use(recovery(logger))

	s := &Server{
		router: router,
		relay:  cfg.Relay,
		logger: logger,
	}

	s.setupRoutes(cfg.Gatherer)

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Translation relay
	s.router.POST("/translate", s.handleTranslate)
}

// SetupWebSocket adds the translation feed to the server
func (s *Server) SetupWebSocket(handler FeedHandler) {
	s.router.GET("/ws/translations", handler.HandleTranslationFeed)
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
