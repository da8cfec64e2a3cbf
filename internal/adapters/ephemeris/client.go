// Package ephemeris is the HTTP client for the external chart-computation
// service. It fetches fully computed chart results (positions, aspects,
// house cusps); the engine never does that math itself.
package ephemeris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/astriel/siderea/internal/domain/model"
	"github.com/astriel/siderea/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout = 5 * time.Second
	computePath    = "/api/v1/charts"
)

// Client fetches computed charts.
type Client interface {
	// Compute requests a chart computation, honoring ctx for cancellation.
	Compute(ctx context.Context, req model.ChartRequest) (*model.ChartResult, error)
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// Option applies a configuration option to the HTTPClient.
type Option func(*HTTPClient)

// WithTimeout bounds a single computation call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// NewHTTPClient creates a client for the computation service at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute posts the chart request and decodes the computed result.
func (c *HTTPClient) Compute(ctx context.Context, req model.ChartRequest) (*model.ChartResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordEphemerisLatency(float64(time.Since(start).Milliseconds()))
	}()

	body, err := json.Marshal(req)
	if err != nil {
		metrics.RecordEphemerisError()
		return nil, fmt.Errorf("marshal chart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+computePath, bytes.NewReader(body))
	if err != nil {
		metrics.RecordEphemerisError()
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.RecordEphemerisError()
		metrics.RecordErrorByComponent("ephemeris", "transport")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordEphemerisError()
		metrics.RecordErrorByComponent("ephemeris", "status")
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordEphemerisError()
		return nil, fmt.Errorf("%w: read body: %w", ErrBadResponse, err)
	}

	var result model.ChartResult
	if err := json.Unmarshal(payload, &result); err != nil {
		metrics.RecordEphemerisError()
		metrics.RecordErrorByComponent("ephemeris", "decode")
		return nil, fmt.Errorf("%w: decode: %w", ErrBadResponse, err)
	}
	return &result, nil
}
