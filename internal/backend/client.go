package backend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/rs/zerolog"

	"reelplan/internal/domain"
)

// ClientOptions tunes the guard rails around a Generator.
type ClientOptions struct {
	// MaxRetries bounds retries of a single call on transient failure.
	MaxRetries int
	// CallTimeout is the per-call deadline; expiry counts as transient.
	CallTimeout time.Duration
	// Budget is the shared concurrent-call budget. Required.
	Budget *Budget
	Logger zerolog.Logger
}

// Client wraps a Generator with the shared call budget, a bounded retry
// policy with exponential backoff for transient failures, and a circuit
// breaker so a dead backend fails fast across sessions.
type Client struct {
	gen     Generator
	budget  *Budget
	retry   retrypolicy.RetryPolicy[string]
	breaker circuitbreaker.CircuitBreaker[string]
	timeout time.Duration
	logger  zerolog.Logger
}

func NewClient(gen Generator, opts ClientOptions) *Client {
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	budget := opts.Budget
	if budget == nil {
		budget = NewBudget(4)
	}

	retry := retrypolicy.NewBuilder[string]().
		WithBackoff(250*time.Millisecond, 4*time.Second).
		WithJitterFactor(0.1).
		WithMaxRetries(retries).
		HandleIf(func(_ string, err error) bool {
			return domain.IsTransient(err)
		}).
		Build()

	breaker := circuitbreaker.NewBuilder[string]().
		WithFailureThresholdRatio(5, 10).
		WithDelay(15 * time.Second).
		WithSuccessThreshold(1).
		HandleIf(func(_ string, err error) bool {
			return err != nil && domain.IsTransient(err)
		}).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			opts.Logger.Warn().
				Str("backend", gen.Name()).
				Str("from", fmt.Sprint(event.OldState)).
				Str("to", fmt.Sprint(event.NewState)).
				Msg("backend circuit breaker state change")
		}).
		Build()

	return &Client{
		gen:     gen,
		budget:  budget,
		retry:   retry,
		breaker: breaker,
		timeout: timeout,
		logger:  opts.Logger,
	}
}

// Name reports the underlying provider name.
func (c *Client) Name() string { return c.gen.Name() }

// Complete runs one guarded completion. The returned attempt count includes
// the first try, so a call that succeeds immediately reports 1.
func (c *Client) Complete(ctx context.Context, prompt string, params Params) (string, int, error) {
	var attempts int32

	text, err := failsafe.With(c.retry, c.breaker).WithContext(ctx).Get(func() (string, error) {
		atomic.AddInt32(&attempts, 1)
		if err := c.budget.Acquire(ctx); err != nil {
			return "", err
		}
		defer c.budget.Release()

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		out, err := c.gen.Complete(callCtx, prompt, params)
		if err != nil {
			// A deadline on the call context (not the caller's) is a
			// transient backend timeout.
			if callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
				return "", fmt.Errorf("%w: %v", domain.ErrTimeout, err)
			}
			return "", err
		}
		return out, nil
	})
	return text, int(atomic.LoadInt32(&attempts)), err
}
