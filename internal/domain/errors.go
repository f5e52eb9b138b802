package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrRateLimited     = errors.New("backend rate limited")
	ErrTimeout         = errors.New("backend timeout")
	ErrInvalidResponse = errors.New("invalid backend response")

	// ErrTemplateNotFound and ErrMissingBinding are deterministic
	// configuration errors and are never retried.
	ErrTemplateNotFound = errors.New("template not found")
	ErrMissingBinding   = errors.New("missing template binding")

	// ErrUnavailable is the normal outcome of an optional provider that is
	// switched off, unconfigured, or timed out. It is not a failure.
	ErrUnavailable = errors.New("provider unavailable")
)

// IsTransient reports whether err is a backend failure worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}

// FailureKind names the error category for a failure report.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrMissingBinding):
		return "template"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "backend"
	}
}

// FailureReport is the structured error callers receive instead of a partial
// plan. It names the step that failed and the error kind.
type FailureReport struct {
	Step StepName `json:"step"`
	Kind string   `json:"kind"`
	Err  error    `json:"-"`
}

func (f *FailureReport) Error() string {
	return fmt.Sprintf("step %s failed (%s): %v", f.Step, f.Kind, f.Err)
}

func (f *FailureReport) Unwrap() error { return f.Err }

// NewFailure builds a report for a failed step.
func NewFailure(step StepName, err error) *FailureReport {
	return &FailureReport{Step: step, Kind: FailureKind(err), Err: err}
}
