// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/astriel/siderea/internal/domain/dedupe"
	"github.com/astriel/siderea/internal/domain/model"
	"github.com/astriel/siderea/pkg/metrics"
)

// ChartDependencies defines the interface for chart submission dependencies.
type ChartDependencies interface {
	dedupe.Deduper
	NewRequestID() string
	Enqueue(ctx context.Context, requestID string, req model.ChartRequest, rulershipMode string) bool
}

// ChartsHandler handles chart submission requests.
type ChartsHandler struct {
	deps ChartDependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartDependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandlePostChart handles POST /charts requests.
func (h *ChartsHandler) HandlePostChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_chart"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req chartSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	// Idempotency check for client-supplied ids - mark as seen first.
	requestID := req.RequestID
	if requestID == "" {
		requestID = h.deps.NewRequestID()
	} else if h.deps.SeenAndRecord(r.Context(), requestID) {
		metrics.RecordChartDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{RequestID: requestID, Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing.
	if ok := h.deps.Enqueue(r.Context(), requestID, req.toModel(), req.RulershipMode); !ok {
		// Rollback the "seen" status since enqueue failed.
		h.deps.Unrecord(r.Context(), requestID)
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
		return
	}

	metrics.RecordChartSubmitted()
	writeJSON(w, http.StatusAccepted, ackResponse{RequestID: requestID, Status: "accepted", Duplicate: false})
}
