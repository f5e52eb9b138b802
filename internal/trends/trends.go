// Package trends exposes the optional trend-signal capability. Unavailability
// is a normal outcome, not an error path: callers proceed without the signal.
package trends

import (
	"context"

	"reelplan/internal/domain"
)

// Provider looks up current trend context for a topic on a platform. When no
// signal can be produced (feature off, missing credentials, timeout) it
// returns domain.ErrUnavailable.
type Provider interface {
	Lookup(ctx context.Context, topic string, platform domain.Platform) (*domain.TrendSignal, error)
}

// Disabled is the no-op provider wired when the feature is unconfigured.
type Disabled struct{}

func (Disabled) Lookup(context.Context, string, domain.Platform) (*domain.TrendSignal, error) {
	return nil, domain.ErrUnavailable
}

var _ Provider = Disabled{}
