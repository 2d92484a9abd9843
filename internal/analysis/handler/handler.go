// Package handler exposes the synchronous cryptanalysis API: encrypt,
// decrypt, and crack. Crack requests are served cache-first; outcomes are
// tracked as telemetry and Prometheus metrics.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cipherworks/cipher-analysis-platform/internal/analysis/cache"
	"github.com/cipherworks/cipher-analysis-platform/internal/stats"
	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
	"github.com/cipherworks/cipher-analysis-platform/pkg/logger"
	"github.com/cipherworks/cipher-analysis-platform/pkg/metrics"
	"github.com/cipherworks/cipher-analysis-platform/pkg/middleware"
)

// CipherRequest is the body of the encrypt and decrypt endpoints. Text holds
// plaintext for encrypt and ciphertext for decrypt.
type CipherRequest struct {
	Text string `json:"text"`
	Key  string `json:"key"`
}

// CipherResponse returns the transformed text.
type CipherResponse struct {
	Result string `json:"result"`
	Length int    `json:"length"`
}

// CrackRequest is the body of the crack endpoint.
type CrackRequest struct {
	Ciphertext string `json:"ciphertext"`
}

type Handler struct {
	cache     *cache.ResultCache
	collector *stats.Collector
	metrics   *metrics.Metrics
	opts      vigenere.Options
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, and m may each be nil; the
// handler degrades to uncached, untracked operation.
func New(resultCache *cache.ResultCache, collector *stats.Collector, m *metrics.Metrics, opts vigenere.Options) *Handler {
	return &Handler{
		cache:     resultCache,
		collector: collector,
		metrics:   m,
		opts:      opts,
		logger:    slog.Default().With("component", "analysis-handler"),
	}
}

func (h *Handler) Encrypt(w http.ResponseWriter, r *http.Request) {
	h.cipherOp(w, r, vigenere.Encrypt)
}

func (h *Handler) Decrypt(w http.ResponseWriter, r *http.Request) {
	h.cipherOp(w, r, vigenere.Decrypt)
}

func (h *Handler) cipherOp(w http.ResponseWriter, r *http.Request, op func(text, key string) (string, error)) {
	var req CipherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	result, err := op(req.Text, req.Key)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, CipherResponse{Result: result, Length: len(result)})
}

// Crack runs the full pipeline on the submitted ciphertext, consulting the
// result cache first. Insufficient signal maps to 422; the response then
// carries the sentinel's message rather than a best guess, because none
// exists.
func (h *Handler) Crack(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req CrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	normalized := vigenere.Normalize(req.Ciphertext)
	if normalized == "" {
		h.writeError(w, http.StatusBadRequest, "ciphertext contains no alphabetic characters")
		return
	}

	var (
		result   *vigenere.Result
		err      error
		cacheHit bool
	)
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, normalized, func() (*vigenere.Result, error) {
			return vigenere.Crack(normalized, h.opts)
		})
	} else {
		result, err = vigenere.Crack(normalized, h.opts)
	}
	latency := time.Since(start)

	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		if errors.Is(err, apperrors.ErrInsufficientSignal) {
			log.Info("crack found no signal", "text_length", len(normalized), "latency_ms", latency.Milliseconds())
			h.track(ctx, stats.EventNoSignal, normalized, nil, cacheHit, latency)
			h.observe("no_signal", nil, latency)
		} else {
			log.Error("crack failed", "error", err)
			h.track(ctx, stats.EventError, normalized, nil, cacheHit, latency)
			h.observe("error", nil, latency)
		}
		h.writeError(w, statusCode, err.Error())
		return
	}

	log.Info("crack completed",
		"key_length", result.KeyLength,
		"confidence", result.Confidence,
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	h.track(ctx, stats.EventRecovered, normalized, result, cacheHit, latency)
	h.observe("recovered", result, latency)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": hitRate,
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) track(ctx context.Context, eventType stats.EventType, normalized string, result *vigenere.Result, cacheHit bool, latency time.Duration) {
	if h.collector == nil {
		return
	}
	event := stats.CrackEvent{
		Type:       eventType,
		Source:     "api",
		TextLength: len(normalized),
		CacheHit:   cacheHit,
		LatencyMs:  latency.Milliseconds(),
		Timestamp:  time.Now().UTC(),
		RequestID:  middleware.GetRequestID(ctx),
	}
	if result != nil {
		event.KeyLength = result.KeyLength
		event.Confidence = result.Confidence
	}
	h.collector.Track(event)
}

func (h *Handler) observe(outcome string, result *vigenere.Result, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	h.metrics.CracksTotal.WithLabelValues(outcome).Inc()
	h.metrics.CrackDuration.WithLabelValues("api").Observe(latency.Seconds())
	if result != nil {
		h.metrics.CrackKeyLength.Observe(float64(result.KeyLength))
		h.metrics.CrackConfidence.Observe(result.Confidence)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
