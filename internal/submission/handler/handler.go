package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cipherworks/cipher-analysis-platform/internal/jobs"
	"github.com/cipherworks/cipher-analysis-platform/internal/submission"
	"github.com/cipherworks/cipher-analysis-platform/internal/submission/publisher"
	"github.com/cipherworks/cipher-analysis-platform/internal/submission/validator"
	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
	"github.com/cipherworks/cipher-analysis-platform/pkg/logger"
)

type Handler struct {
	publisher     *publisher.Publisher
	store         *jobs.Store
	maxTextLength int
	logger        *slog.Logger
}

func New(pub *publisher.Publisher, store *jobs.Store, maxTextLength int) *Handler {
	return &Handler{
		publisher:     pub,
		store:         store,
		maxTextLength: maxTextLength,
		logger:        slog.Default().With("component", "submission-handler"),
	}
}

// Submit accepts a ciphertext, validates it, and enqueues a crack job.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req submission.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	normalized, err := validator.ValidateSubmitRequest(&req, h.maxTextLength)
	if err != nil {
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.publisher.Submit(ctx, normalized)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		log.Error("job submission failed",
			"error", err,
			"status_code", statusCode,
		)
		h.writeError(w, statusCode, "job submission failed")
		return
	}
	log.Info("crack job accepted",
		"job_id", resp.JobID,
		"text_length", resp.TextLength,
	)
	h.writeJSON(w, http.StatusAccepted, resp)
}

// Get returns the state of a job, including its result once cracked.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "job id is required")
		return
	}

	job, err := h.store.Get(ctx, id)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		if statusCode >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("job lookup failed", "job_id", id, "error", err)
		}
		h.writeError(w, statusCode, "job lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, job)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
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
