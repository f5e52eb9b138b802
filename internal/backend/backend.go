// Package backend defines the text-generation capability interface and its
// concrete providers. The orchestrator only ever sees the Generator contract.
package backend

import "context"

// Params are the generation parameters for one completion call.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// Generator is the capability interface for a text-generation backend:
// prompt in, text out. Failures map onto the domain error taxonomy
// (rate limited, timeout, invalid response).
type Generator interface {
	Complete(ctx context.Context, prompt string, params Params) (string, error)
	Name() string
}
