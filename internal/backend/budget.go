package backend

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Budget is the process-wide bound on concurrent backend calls, shared by
// every session. Acquire blocks when the budget is exhausted so new step
// calls queue instead of firing unbounded concurrent requests.
type Budget struct {
	sem *semaphore.Weighted
}

// NewBudget creates a budget allowing up to n concurrent calls.
func NewBudget(n int64) *Budget {
	if n <= 0 {
		n = 1
	}
	return &Budget{sem: semaphore.NewWeighted(n)}
}

func (b *Budget) Acquire(ctx context.Context) error {
	return b.sem.Acquire(ctx, 1)
}

func (b *Budget) Release() {
	b.sem.Release(1)
}
