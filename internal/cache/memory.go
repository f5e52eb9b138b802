package cache

import (
	"context"
	"sync"

	"reelplan/internal/domain"
)

// Memory is a process-local ResultCache used for tests and single-instance
// deployments. Plans are deep-copied on both sides so callers can never
// mutate a cached entry.
type Memory struct {
	mu    sync.RWMutex
	plans map[string]*domain.ContentPlan
}

func NewMemory() *Memory {
	return &Memory{plans: make(map[string]*domain.ContentPlan)}
}

func (m *Memory) Get(ctx context.Context, fingerprint string) (*domain.ContentPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	plan, ok := m.plans[fingerprint]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	return plan.Clone(), nil
}

func (m *Memory) Put(ctx context.Context, fingerprint string, plan *domain.ContentPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.plans[fingerprint] = plan.Clone()
	m.mu.Unlock()
	return nil
}

// Len reports the number of cached plans.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plans)
}

var _ ResultCache = (*Memory)(nil)
