package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
	"github.com/cipherworks/cipher-analysis-platform/pkg/postgres"
)

// Store persists crack jobs in PostgreSQL. See migrations/001_create_jobs.sql
// for the schema.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a Store backed by the given database client.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "job-store"),
	}
}

// Insert persists a new PENDING job.
func (s *Store) Insert(ctx context.Context, job *Job) error {
	_, err := s.db.DB.ExecContext(ctx,
		`INSERT INTO crack_jobs (id, ciphertext, ciphertext_hash, text_length, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		job.ID, job.Ciphertext, job.CiphertextHash, job.TextLength, StatusPending)
	if err != nil {
		return fmt.Errorf("inserting job %s: %w", job.ID, err)
	}
	return nil
}

// MarkRunning transitions a job to RUNNING.
func (s *Store) MarkRunning(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusRunning)
}

// Complete records a successful crack: key, plaintext, key length, and
// confidence in one transaction with the DONE transition.
func (s *Store) Complete(ctx context.Context, id, key, plaintext string, keyLength int, confidence float64) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE crack_jobs
			 SET status=$2, recovered_key=$3, plaintext=$4, key_length=$5, confidence=$6, updated_at=$7
			 WHERE id=$1`,
			id, StatusDone, key, plaintext, keyLength, confidence, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("completing job %s: %w", id, err)
		}
		return requireRow(res, id)
	})
}

// Fail records a failed crack with its reason.
func (s *Store) Fail(ctx context.Context, id, reason string) error {
	res, err := s.db.DB.ExecContext(ctx,
		`UPDATE crack_jobs SET status=$2, error=$3, updated_at=$4 WHERE id=$1`,
		id, StatusFailed, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failing job %s: %w", id, err)
	}
	return requireRow(res, id)
}

// Get returns a job by ID, or ErrJobNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	var (
		job        Job
		key        sql.NullString
		plaintext  sql.NullString
		keyLength  sql.NullInt64
		confidence sql.NullFloat64
		errMsg     sql.NullString
	)
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT id, ciphertext, ciphertext_hash, text_length, status,
		        recovered_key, plaintext, key_length, confidence, error,
		        created_at, updated_at
		 FROM crack_jobs WHERE id=$1`, id).Scan(
		&job.ID, &job.Ciphertext, &job.CiphertextHash, &job.TextLength, &job.Status,
		&key, &plaintext, &keyLength, &confidence, &errMsg,
		&job.CreatedAt, &job.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying job %s: %w", id, err)
	}
	job.Key = key.String
	job.Plaintext = plaintext.String
	job.KeyLength = int(keyLength.Int64)
	job.Confidence = confidence.Float64
	job.Error = errMsg.String
	return &job, nil
}

func (s *Store) setStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.DB.ExecContext(ctx,
		`UPDATE crack_jobs SET status=$2, updated_at=$3 WHERE id=$1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating job %s to %s: %w", id, status, err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected for job %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrJobNotFound, id)
	}
	return nil
}
