package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/transrelay/internal/application/relay"
	"github.com/aescanero/transrelay/internal/config"
	"github.com/aescanero/transrelay/pkg/adapters/events/memory"
	"github.com/aescanero/transrelay/pkg/adapters/events/redis"
	"github.com/aescanero/transrelay/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/transrelay/pkg/adapters/upstream"
	"github.com/aescanero/transrelay/pkg/api/grpc"
	"github.com/aescanero/transrelay/pkg/api/http"
	"github.com/aescanero/transrelay/pkg/api/websocket"
	"github.com/aescanero/transrelay/pkg/ports"

	promclient "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting translation relay",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize event bus
	var (
		eventBus    ports.EventBus
		redisClient *goredis.Client
	)
	switch cfg.Events.Backend {
	case "redis":
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		// Test Redis connection
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		eventBus = redis.NewStreamsEventBus(redisClient, cfg.Redis.StreamMaxLen, logger)
	default:
		eventBus = memory.NewInMemoryEventBus()
	}

	// Initialize adapters
	translator, err := upstream.NewClient(&upstream.Config{
		Provider: cfg.Upstream.Provider,
		BaseURL:  cfg.Upstream.BaseURL,
		Email:    cfg.Upstream.Email,
		Timeout:  cfg.Upstream.Timeout,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("failed to create upstream client", zap.Error(err))
	}

	metricsCollector := prometheus.NewCollector(nil)

	// Initialize application components
	relayMgr := relay.NewManager(
		translator,
		eventBus,
		metricsCollector,
		relay.NewValidator(),
		logger,
	)

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Addr:     cfg.GetHTTPAddr(),
		Relay:    relayMgr,
		Logger:   logger,
		Metrics:  metricsCollector,
		Gatherer: promclient.DefaultGatherer,
	})

	// Add WebSocket feed to HTTP server
	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	var grpcServer *grpc.Server
	if cfg.GRPCEnabled() {
		grpcServer = grpc.NewServer(&grpc.Config{
			Addr:   cfg.GetGRPCAddr(),
			Logger: logger,
		})
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("translation relay started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("upstream", translator.Name()),
		zap.String("events_backend", cfg.Events.Backend))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	// Shutdown components
	wsHandler.Close()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("translation relay shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
