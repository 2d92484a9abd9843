package jobs

// These tests need a live PostgreSQL with the crack_jobs schema applied
// (migrations/001_create_jobs.sql). They are skipped unless
// CP_TEST_WITH_POSTGRES is set; connection parameters come from the usual
// CP_POSTGRES_* variables.

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipherworks/cipher-analysis-platform/pkg/config"
	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
	"github.com/cipherworks/cipher-analysis-platform/pkg/postgres"
)

func testStore(t *testing.T) (*Store, *postgres.Client) {
	t.Helper()
	if os.Getenv("CP_TEST_WITH_POSTGRES") == "" {
		t.Skip("set CP_TEST_WITH_POSTGRES to run job store tests")
	}
	cfg, err := config.Load("")
	require.NoError(t, err)
	client, err := postgres.New(cfg.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewStore(client), client
}

func insertTestJob(t *testing.T, store *Store, client *postgres.Client) *Job {
	t.Helper()
	ciphertext := "RIJVSUYVJN"
	job := &Job{
		ID:             uuid.NewString(),
		Ciphertext:     ciphertext,
		CiphertextHash: fmt.Sprintf("%x", sha256.Sum256([]byte(ciphertext))),
		TextLength:     len(ciphertext),
	}
	require.NoError(t, store.Insert(context.Background(), job))
	t.Cleanup(func() {
		client.DB.Exec("DELETE FROM crack_jobs WHERE id=$1", job.ID)
	})
	return job
}

func TestStoreLifecycle(t *testing.T) {
	store, client := testStore(t)
	ctx := context.Background()
	job := insertTestJob(t, store, client)

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, job.CiphertextHash, got.CiphertextHash)
	assert.Equal(t, job.TextLength, got.TextLength)

	require.NoError(t, store.MarkRunning(ctx, job.ID))
	got, err = store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)

	require.NoError(t, store.Complete(ctx, job.ID, "KEY", "HELLOWORLD", 3, 0.42))
	got, err = store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, "KEY", got.Key)
	assert.Equal(t, "HELLOWORLD", got.Plaintext)
	assert.Equal(t, 3, got.KeyLength)
	assert.InDelta(t, 0.42, got.Confidence, 1e-9)
}

func TestStoreFail(t *testing.T) {
	store, client := testStore(t)
	ctx := context.Background()
	job := insertTestJob(t, store, client)

	require.NoError(t, store.Fail(ctx, job.ID, "insufficient signal"))
	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "insufficient signal", got.Error)
}

func TestStoreMissingJob(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	missing := uuid.NewString()

	_, err := store.Get(ctx, missing)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
	assert.ErrorIs(t, store.MarkRunning(ctx, missing), apperrors.ErrJobNotFound)
	assert.ErrorIs(t, store.Fail(ctx, missing, "boom"), apperrors.ErrJobNotFound)
	assert.ErrorIs(t, store.Complete(ctx, missing, "K", "P", 1, 0.5), apperrors.ErrJobNotFound)
}
