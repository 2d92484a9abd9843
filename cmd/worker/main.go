// Command worker starts a crack worker process.
//
// It consumes crack job events from Kafka, runs the full cryptanalysis
// pipeline for each job, persists the outcome in PostgreSQL, warms the Redis
// result cache, and publishes crack telemetry. Workers scale horizontally:
// every instance joins the same consumer group.
//
// Usage:
//
//	go run ./cmd/worker [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cipherworks/cipher-analysis-platform/internal/analysis/cache"
	"github.com/cipherworks/cipher-analysis-platform/internal/jobs"
	"github.com/cipherworks/cipher-analysis-platform/internal/stats"
	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
	"github.com/cipherworks/cipher-analysis-platform/internal/worker"
	"github.com/cipherworks/cipher-analysis-platform/pkg/config"
	"github.com/cipherworks/cipher-analysis-platform/pkg/kafka"
	"github.com/cipherworks/cipher-analysis-platform/pkg/logger"
	"github.com/cipherworks/cipher-analysis-platform/pkg/metrics"
	"github.com/cipherworks/cipher-analysis-platform/pkg/postgres"
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
	slog.Info("starting crack worker")

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to postgres", "database", cfg.Postgres.Database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	var resultCache *cache.ResultCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, result cache warming disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Redis)
	}

	telemetryProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.CrackTelemetry)
	defer telemetryProducer.Close()
	collector := stats.NewCollector(telemetryProducer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("stats collector started", "topic", cfg.Kafka.Topics.CrackTelemetry)

	store := jobs.NewStore(db)
	w := worker.New(store, resultCache, collector, m, crackerOptions(cfg.Cracker))

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CrackJobs, w.HandleJob())
	slog.Info("crack worker consuming", "topic", cfg.Kafka.Topics.CrackJobs, "group", cfg.Kafka.ConsumerGroup)
	if err := consumer.Start(ctx); err != nil {
		slog.Error("consumer error", "error", err)
		os.Exit(1)
	}

	slog.Info("crack worker stopped")
}

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
