// Package publisher persists crack jobs to PostgreSQL and publishes them to
// Kafka for the worker pool. Jobs carry a SHA-256 content hash so repeated
// submissions of the same ciphertext are traceable across the cache and the
// store.
package publisher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/cipherworks/cipher-analysis-platform/internal/jobs"
	"github.com/cipherworks/cipher-analysis-platform/internal/submission"
	"github.com/cipherworks/cipher-analysis-platform/pkg/kafka"
	"github.com/cipherworks/cipher-analysis-platform/pkg/metrics"
	"github.com/cipherworks/cipher-analysis-platform/pkg/resilience"
	"github.com/google/uuid"
)

// Publisher coordinates job persistence and Kafka event production.
type Publisher struct {
	store    *jobs.Store
	producer *kafka.Producer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a Publisher with the given store and Kafka producer. metrics
// may be nil.
func New(store *jobs.Store, producer *kafka.Producer, m *metrics.Metrics) *Publisher {
	return &Publisher{
		store:    store,
		producer: producer,
		metrics:  m,
		logger:   slog.Default().With("component", "job-publisher"),
	}
}

// Submit persists a PENDING job for the already-normalized ciphertext and
// publishes a CrackJobEvent. The publish is retried with backoff; if it still
// fails the job stays PENDING and the failure is logged rather than undoing
// the insert.
func (p *Publisher) Submit(ctx context.Context, normalized string) (*submission.SubmitResponse, error) {
	job := &jobs.Job{
		ID:             uuid.NewString(),
		Ciphertext:     normalized,
		CiphertextHash: fmt.Sprintf("%x", sha256.Sum256([]byte(normalized))),
		TextLength:     len(normalized),
	}

	if err := p.store.Insert(ctx, job); err != nil {
		return nil, fmt.Errorf("persisting job: %w", err)
	}
	if p.metrics != nil {
		p.metrics.JobsSubmittedTotal.Inc()
		p.metrics.JobStateTotal.WithLabelValues(string(jobs.StatusPending)).Inc()
	}

	event := kafka.Event{
		Key: job.ID,
		Value: submission.CrackJobEvent{
			JobID:       job.ID,
			Ciphertext:  normalized,
			SubmittedAt: time.Now().UTC(),
		},
	}
	err := resilience.Retry(ctx, "publish-crack-job", resilience.RetryConfig{}, func() error {
		return p.producer.Publish(ctx, event)
	})
	if err != nil {
		p.logger.Error("failed to publish job, stuck in PENDING",
			"job_id", job.ID,
			"error", err,
		)
	}

	return &submission.SubmitResponse{
		JobID:      job.ID,
		Status:     string(jobs.StatusPending),
		TextLength: job.TextLength,
	}, nil
}
