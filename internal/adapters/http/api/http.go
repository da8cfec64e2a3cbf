// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/astriel/siderea/internal/adapters/repository"
	"github.com/astriel/siderea/internal/domain/charttype"
	"github.com/astriel/siderea/internal/domain/dedupe"
	"github.com/astriel/siderea/internal/domain/insight"
	"github.com/astriel/siderea/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// NewRequestID mints an id for submissions that did not bring their own.
	NewRequestID() string

	// Enqueue pushes a chart job for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, requestID string, req model.ChartRequest, rulershipMode string) bool

	// Insight returns the stored derivation record for a request id.
	Insight(ctx context.Context, requestID string) (repository.Record, error)

	// Derive runs the engine over an already computed chart result.
	Derive(ctx context.Context, result *model.ChartResult, rulershipMode string) *insight.View
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	chartsHandler   *ChartsHandler
	insightsHandler *InsightsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		chartsHandler:   NewChartsHandler(deps),
		insightsHandler: NewInsightsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/charts", MetricsMiddleware(s.chartsHandler.HandlePostChart, "charts"))
	mux.HandleFunc("/insights/derive", MetricsMiddleware(s.insightsHandler.HandleDerive, "derive"))
	mux.HandleFunc("/insights/", MetricsMiddleware(s.insightsHandler.HandleGetInsight, "insights"))
}

// birthDataRequest mirrors the OpenAPI schema for a chart subject.
type birthDataRequest struct {
	Name      string  `json:"name"`
	BirthTime string  `json:"birth_time"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Location  string  `json:"location,omitempty"`
}

func (b birthDataRequest) validate(label string) error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return errors.New("missing " + label + ".name")
	case strings.TrimSpace(b.BirthTime) == "":
		return errors.New("missing " + label + ".birth_time")
	}
	if _, err := time.Parse(time.RFC3339, b.BirthTime); err != nil {
		return errors.New("invalid " + label + ".birth_time; must be RFC3339")
	}
	if b.Latitude < -90 || b.Latitude > 90 {
		return errors.New("invalid " + label + ".latitude")
	}
	if b.Longitude < -180 || b.Longitude > 180 {
		return errors.New("invalid " + label + ".longitude")
	}
	return nil
}

func (b birthDataRequest) toModel() model.BirthData {
	return model.BirthData{
		Name:      b.Name,
		BirthTime: b.BirthTime,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Location:  b.Location,
	}
}

// chartSubmitRequest mirrors the OpenAPI schema for POST /charts.
type chartSubmitRequest struct {
	RequestID     string            `json:"request_id,omitempty"`
	ChartType     string            `json:"chart_type"`
	First         birthDataRequest  `json:"first_subject"`
	Second        *birthDataRequest `json:"second_subject,omitempty"`
	ActivePoints  []string          `json:"active_points,omitempty"`
	RulershipMode string            `json:"rulership_mode,omitempty"`
}

func (c chartSubmitRequest) validate() error {
	if strings.TrimSpace(c.ChartType) == "" {
		return errors.New("missing chart_type")
	}
	if err := c.First.validate("first_subject"); err != nil {
		return err
	}
	t := charttype.Normalize(c.ChartType)
	if charttype.IsDual(t) && c.Second == nil {
		return errors.New("chart_type " + string(t) + " requires second_subject")
	}
	if c.Second != nil {
		if err := c.Second.validate("second_subject"); err != nil {
			return err
		}
	}
	return nil
}

func (c chartSubmitRequest) toModel() model.ChartRequest {
	req := model.ChartRequest{
		ChartType:    c.ChartType,
		First:        c.First.toModel(),
		ActivePoints: c.ActivePoints,
	}
	if c.Second != nil {
		second := c.Second.toModel()
		req.Second = &second
	}
	return req
}

type ackResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type insightResponse struct {
	RequestID string        `json:"request_id"`
	ChartType string        `json:"chart_type,omitempty"`
	Status    string        `json:"status"`
	Insight   *insight.View `json:"insight,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
