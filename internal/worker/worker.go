// Package worker consumes crack jobs from Kafka, runs the cracking pipeline,
// persists the outcome in the job store, warms the result cache, and emits
// telemetry.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cipherworks/cipher-analysis-platform/internal/analysis/cache"
	"github.com/cipherworks/cipher-analysis-platform/internal/jobs"
	"github.com/cipherworks/cipher-analysis-platform/internal/stats"
	"github.com/cipherworks/cipher-analysis-platform/internal/submission"
	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
	"github.com/cipherworks/cipher-analysis-platform/pkg/kafka"
	"github.com/cipherworks/cipher-analysis-platform/pkg/metrics"
	"github.com/cipherworks/cipher-analysis-platform/pkg/resilience"
	"github.com/cipherworks/cipher-analysis-platform/pkg/tracing"
)

// Worker processes crack jobs. Each job runs the full pipeline on the
// calling goroutine: the consumer loop provides the sequential contract the
// cracker requires.
type Worker struct {
	store     *jobs.Store
	cache     *cache.ResultCache
	collector *stats.Collector
	metrics   *metrics.Metrics
	opts      vigenere.Options
	logger    *slog.Logger
}

// New creates a Worker. cache, collector, and m may each be nil.
func New(store *jobs.Store, resultCache *cache.ResultCache, collector *stats.Collector, m *metrics.Metrics, opts vigenere.Options) *Worker {
	return &Worker{
		store:     store,
		cache:     resultCache,
		collector: collector,
		metrics:   m,
		opts:      opts,
		logger:    slog.Default().With("component", "crack-worker"),
	}
}

// HandleJob returns the Kafka MessageHandler driving the worker. Crack
// outcomes are deterministic, so a job that fails analysis is marked FAILED
// and committed rather than redelivered; only infrastructure errors (store
// unreachable) propagate to block the commit.
func (w *Worker) HandleJob() kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[submission.CrackJobEvent](value)
		if err != nil {
			w.logger.Error("failed to decode crack job event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		return w.process(ctx, event)
	}
}

func (w *Worker) process(ctx context.Context, event submission.CrackJobEvent) error {
	log := w.logger.With("job_id", event.JobID)
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "crack-job", event.JobID)
	span.SetAttr("text_length", len(event.Ciphertext))
	defer func() {
		span.End()
		span.Log()
	}()

	if err := w.retryStore(ctx, "mark-running", func() error {
		return w.store.MarkRunning(ctx, event.JobID)
	}); err != nil {
		return err
	}
	w.transition(jobs.StatusRunning)
	log.Info("crack started", "text_length", len(event.Ciphertext))

	pipelineCtx, pipelineSpan := tracing.StartChildSpan(ctx, "pipeline")
	var result *vigenere.Result
	var crackErr error
	if w.cache != nil {
		var cacheHit bool
		result, cacheHit, crackErr = w.cache.GetOrCompute(pipelineCtx, event.Ciphertext, func() (*vigenere.Result, error) {
			return vigenere.Crack(event.Ciphertext, w.opts)
		})
		pipelineSpan.SetAttr("cache_hit", cacheHit)
	} else {
		result, crackErr = vigenere.Crack(event.Ciphertext, w.opts)
	}
	pipelineSpan.End()
	latency := time.Since(start)

	if crackErr != nil {
		if !errors.Is(crackErr, apperrors.ErrInsufficientSignal) {
			log.Error("crack failed", "error", crackErr)
		} else {
			log.Info("crack found no signal", "latency_ms", latency.Milliseconds())
		}

		_, failSpan := tracing.StartChildSpan(ctx, "persist-failure")
		err := w.retryStore(ctx, "fail-job", func() error {
			return w.store.Fail(ctx, event.JobID, crackErr.Error())
		})
		failSpan.End()
		if err != nil {
			return err
		}
		w.transition(jobs.StatusFailed)
		w.finish(event, nil, latency)
		return nil
	}

	_, persistSpan := tracing.StartChildSpan(ctx, "persist-result")
	err := w.retryStore(ctx, "complete-job", func() error {
		return w.store.Complete(ctx, event.JobID, result.Key, result.Plaintext, result.KeyLength, result.Confidence)
	})
	persistSpan.End()
	if err != nil {
		return err
	}
	w.transition(jobs.StatusDone)

	log.Info("crack completed",
		"key_length", result.KeyLength,
		"confidence", result.Confidence,
		"latency_ms", latency.Milliseconds(),
	)
	span.SetAttr("key_length", result.KeyLength)
	span.SetAttr("confidence", result.Confidence)
	w.finish(event, result, latency)
	return nil
}

// retryStore wraps a job store operation with backoff. The store is the one
// dependency whose failure must block the Kafka commit, otherwise a job
// could be consumed without ever changing state.
func (w *Worker) retryStore(ctx context.Context, name string, fn func() error) error {
	err := resilience.Retry(ctx, name, resilience.RetryConfig{}, fn)
	if err != nil && errors.Is(err, apperrors.ErrJobNotFound) {
		// The job row is gone; redelivery cannot help.
		w.logger.Warn("job disappeared from store", "operation", name, "error", err)
		return nil
	}
	return err
}

func (w *Worker) transition(state jobs.Status) {
	if w.metrics != nil {
		w.metrics.JobStateTotal.WithLabelValues(string(state)).Inc()
	}
}

// finish emits telemetry and metrics for a completed or failed job.
func (w *Worker) finish(event submission.CrackJobEvent, result *vigenere.Result, latency time.Duration) {
	eventType := stats.EventNoSignal
	outcome := "no_signal"
	if result != nil {
		eventType = stats.EventRecovered
		outcome = "recovered"
	}

	if w.metrics != nil {
		w.metrics.CracksTotal.WithLabelValues(outcome).Inc()
		w.metrics.CrackDuration.WithLabelValues("worker").Observe(latency.Seconds())
		if result != nil {
			w.metrics.CrackKeyLength.Observe(float64(result.KeyLength))
			w.metrics.CrackConfidence.Observe(result.Confidence)
		}
	}

	if w.collector == nil {
		return
	}
	telemetry := stats.CrackEvent{
		Type:       eventType,
		Source:     "worker",
		JobID:      event.JobID,
		TextLength: len(event.Ciphertext),
		LatencyMs:  latency.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if result != nil {
		telemetry.KeyLength = result.KeyLength
		telemetry.Confidence = result.Confidence
	}
	w.collector.Track(telemetry)
}
