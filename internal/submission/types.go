// Package submission defines the request/response types and the Kafka event
// schema used by the asynchronous crack job intake.
package submission

import "time"

// SubmitRequest is the JSON body accepted by the job submission endpoint.
// Ciphertext may be raw text; it is normalized to the working alphabet before
// anything else happens.
type SubmitRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// SubmitResponse is returned to the caller after a job is accepted.
type SubmitResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	TextLength int    `json:"text_length"`
}

// CrackJobEvent is the Kafka message payload produced after a job is
// persisted and ready for a worker. Ciphertext is already normalized.
type CrackJobEvent struct {
	JobID       string    `json:"job_id"`
	Ciphertext  string    `json:"ciphertext"`
	SubmittedAt time.Time `json:"submitted_at"`
}
