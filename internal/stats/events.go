// Package stats collects and aggregates crack telemetry. Workers and the
// synchronous API publish CrackEvents to a Kafka topic; the aggregator
// consumes them into running totals and distributions served over HTTP.
package stats

import "time"

type EventType string

const (
	EventRecovered EventType = "recovered"
	EventNoSignal  EventType = "no_signal"
	EventError     EventType = "error"
)

// CrackEvent describes one finished crack attempt, successful or not.
type CrackEvent struct {
	Type       EventType `json:"type"`
	Source     string    `json:"source"` // "api" or "worker"
	JobID      string    `json:"job_id,omitempty"`
	TextLength int       `json:"text_length"`
	KeyLength  int       `json:"key_length,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	CacheHit   bool      `json:"cache_hit"`
	LatencyMs  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}
