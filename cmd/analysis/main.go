// Command analysis starts the synchronous cryptanalysis HTTP service.
//
// It serves encrypt, decrypt, and crack operations over JSON at
// /api/v1/*, consults the Redis result cache before running the crack
// pipeline, publishes crack telemetry to Kafka, and exposes the aggregated
// statistics at GET /api/v1/stats.
//
// Usage:
//
//	go run ./cmd/analysis [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cipherworks/cipher-analysis-platform/internal/analysis/cache"
	"github.com/cipherworks/cipher-analysis-platform/internal/analysis/handler"
	"github.com/cipherworks/cipher-analysis-platform/internal/stats"
	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
	"github.com/cipherworks/cipher-analysis-platform/pkg/config"
	"github.com/cipherworks/cipher-analysis-platform/pkg/health"
	"github.com/cipherworks/cipher-analysis-platform/pkg/kafka"
	"github.com/cipherworks/cipher-analysis-platform/pkg/logger"
	"github.com/cipherworks/cipher-analysis-platform/pkg/metrics"
	"github.com/cipherworks/cipher-analysis-platform/pkg/middleware"
	pkgredis "github.com/cipherworks/cipher-analysis-platform/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting analysis service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	var resultCache *cache.ResultCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, result caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Redis)
		slog.Info("result cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	telemetryProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.CrackTelemetry)
	defer telemetryProducer.Close()
	collector := stats.NewCollector(telemetryProducer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("stats collector started", "topic", cfg.Kafka.Topics.CrackTelemetry)

	var aggregator *stats.Aggregator
	telemetryConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CrackTelemetry,
		func(ctx context.Context, key, value []byte) error {
			return stats.HandleEvent(aggregator)(ctx, key, value)
		})
	aggregator = stats.NewAggregator(telemetryConsumer)
	go func() {
		if err := aggregator.Start(ctx); err != nil {
			slog.Error("stats aggregator error", "error", err)
		}
	}()
	statsHandler := stats.NewHandler(aggregator)

	checker := health.NewChecker()
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("kafka", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp, Message: "producer active"}
	})

	h := handler.New(resultCache, collector, m, crackerOptions(cfg.Cracker))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/encrypt", h.Encrypt)
	mux.HandleFunc("POST /api/v1/decrypt", h.Decrypt)
	mux.HandleFunc("POST /api/v1/crack", h.Crack)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/stats", statsHandler.Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("analysis service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("analysis service stopped")
}

// crackerOptions translates the config section into pipeline options. An
// unusable mostCommonLetter falls back to the default rather than failing
// startup.
func crackerOptions(cfg config.CrackerConfig) vigenere.Options {
	letter := byte(vigenere.DefaultMostCommonLetter)
	if normalized := vigenere.Normalize(cfg.MostCommonLetter); normalized != "" {
		letter = normalized[0]
	}
	return vigenere.Options{
		MinNgram:         cfg.MinNgram,
		MaxNgram:         cfg.MaxNgram,
		MostCommonLetter: letter,
	}
}
