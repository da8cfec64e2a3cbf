// Package repository defines the insight store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/astriel/siderea/internal/domain/insight"
)

// Status tracks where a submitted chart sits in the pipeline.
type Status string

const (
	// StatusPending means the chart is queued or being processed.
	StatusPending Status = "pending"
	// StatusReady means the insight view has been derived and stored.
	StatusReady Status = "ready"
	// StatusFailed means derivation failed; Error carries the reason.
	StatusFailed Status = "failed"
)

// Record is one stored derivation outcome keyed by request id.
type Record struct {
	RequestID   string
	ChartType   string
	Status      Status
	View        *insight.View
	Error       string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Store provides read/write access to derivation records.
type Store interface {
	// Put inserts or replaces the record for its request id.
	Put(ctx context.Context, rec Record) error

	// Get returns the record for a request id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, requestID string) (Record, error)

	// Delete removes the record for a request id, if present.
	Delete(ctx context.Context, requestID string) error

	// Count returns the number of records currently held.
	Count(ctx context.Context) int
}
