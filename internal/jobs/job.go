// Package jobs defines the crack job model and its PostgreSQL store. A job
// moves PENDING → RUNNING → DONE or FAILED; the submission service creates
// it, a worker drives it, and either service can read it back.
package jobs

import "time"

// Status is the lifecycle state of a crack job.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusDone    Status = "DONE"
	StatusFailed  Status = "FAILED"
)

// Job is one submitted ciphertext and, once cracked, its recovered key and
// plaintext.
type Job struct {
	ID             string    `json:"id"`
	CiphertextHash string    `json:"ciphertext_hash"`
	Ciphertext     string    `json:"-"`
	TextLength     int       `json:"text_length"`
	Status         Status    `json:"status"`
	Key            string    `json:"key,omitempty"`
	Plaintext      string    `json:"plaintext,omitempty"`
	KeyLength      int       `json:"key_length,omitempty"`
	Confidence     float64   `json:"confidence,omitempty"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
