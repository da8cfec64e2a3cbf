// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/astriel/siderea/internal/adapters/repository"
	"github.com/astriel/siderea/internal/domain/insight"
	"github.com/astriel/siderea/internal/domain/model"
)

// InsightDependencies defines the interface for insight read and derive
// operations.
type InsightDependencies interface {
	Insight(ctx context.Context, requestID string) (repository.Record, error)
	Derive(ctx context.Context, result *model.ChartResult, rulershipMode string) *insight.View
}

// InsightsHandler handles insight requests.
type InsightsHandler struct {
	deps InsightDependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightDependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

// HandleGetInsight handles GET /insights/{request_id} requests.
func (h *InsightsHandler) HandleGetInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /insights/
	path := strings.TrimPrefix(r.URL.Path, "/insights/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	rec, err := h.deps.Insight(r.Context(), path)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, insightResponse{
		RequestID: rec.RequestID,
		ChartType: rec.ChartType,
		Status:    string(rec.Status),
		Insight:   rec.View,
		Error:     rec.Error,
	})
}

// deriveRequest mirrors the OpenAPI schema for POST /insights/derive: a raw
// chart result as produced by the computation service, plus an optional
// rulership mode.
type deriveRequest struct {
	model.ChartResult
	RulershipMode string `json:"rulership_mode,omitempty"`
}

// HandleDerive handles POST /insights/derive requests. The caller already
// holds a computed chart result; the engine pass is synchronous and never
// fails, so the response is always 200 with a possibly empty view.
func (h *InsightsHandler) HandleDerive(w http.ResponseWriter, r *http.Request) {
	const op = "api.derive"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req deriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	view := h.deps.Derive(r.Context(), &req.ChartResult, req.RulershipMode)
	writeJSON(w, http.StatusOK, insightResponse{
		ChartType: string(view.ChartType),
		Status:    string(repository.StatusReady),
		Insight:   view,
	})
}
