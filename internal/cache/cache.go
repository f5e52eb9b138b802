// Package cache persists finalized content plans keyed by request
// fingerprint, making identical requests idempotent.
package cache

import (
	"context"
	"errors"

	"reelplan/internal/domain"
)

// ErrMiss signals that no plan is cached for a fingerprint.
var ErrMiss = errors.New("cache miss")

// ResultCache is the persistence contract the orchestrator depends on.
// Put is last-writer-wins per fingerprint; outputs for identical inputs are
// expected to converge within quality tolerance.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.ContentPlan, error)
	Put(ctx context.Context, fingerprint string, plan *domain.ContentPlan) error
}
