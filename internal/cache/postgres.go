package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"reelplan/internal/domain"
	"reelplan/internal/infra"
)

const qSelectPlan = `--sql 7c1f2a6e-9d44-4e31-b1a8-3f52c07a9b10
select plan_json
from content_plans
where fingerprint = $1::text
limit 1;
`

const qUpsertPlan = `--sql e84b5d21-06c3-47af-92d5-b9e14f6a3c77
insert into content_plans (fingerprint, plan_json, created_at, updated_at)
values ($1::text, $2::jsonb, now(), now())
on conflict (fingerprint)
do update set plan_json = excluded.plan_json, updated_at = now();
`

// Postgres persists plans in a content_plans table. The upsert makes Put
// last-writer-wins per fingerprint, which doubles as the idempotency record
// across service restarts.
type Postgres struct {
	runner infra.SQLExecutor
}

func NewPostgres(runner infra.SQLExecutor) *Postgres {
	return &Postgres{runner: runner}
}

func (p *Postgres) Get(ctx context.Context, fingerprint string) (*domain.ContentPlan, error) {
	var raw []byte
	row := p.runner.QueryRow(ctx, qSelectPlan, fingerprint)
	if err := row.Scan(&raw); err != nil {
		if infra.IsNoRows(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("select plan: %w", err)
	}
	var plan domain.ContentPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("decode cached plan: %w", err)
	}
	return &plan, nil
}

func (p *Postgres) Put(ctx context.Context, fingerprint string, plan *domain.ContentPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if _, err := p.runner.Exec(ctx, qUpsertPlan, fingerprint, raw); err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

var _ ResultCache = (*Postgres)(nil)
