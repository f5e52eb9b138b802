package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"reelplan/internal/backend"
	"reelplan/internal/cache"
	"reelplan/internal/domain"
	"reelplan/internal/music"
	"reelplan/internal/scorer"
	"reelplan/internal/template"
	"reelplan/internal/trends"
)

// countingGenerator wraps the deterministic generator and tallies calls per
// prompt kind so tests can assert how often each step hit the backend.
type countingGenerator struct {
	inner backend.Generator

	mu       sync.Mutex
	total    int
	hashtags int
	fail     error
	failIf   func(prompt string) error
}

func (c *countingGenerator) Complete(ctx context.Context, prompt string, params backend.Params) (string, error) {
	c.mu.Lock()
	c.total++
	if strings.Contains(prompt, "hashtag list") {
		c.hashtags++
	}
	fail := c.fail
	failIf := c.failIf
	c.mu.Unlock()
	if fail != nil {
		return "", fail
	}
	if failIf != nil {
		if err := failIf(prompt); err != nil {
			return "", err
		}
	}
	return c.inner.Complete(ctx, prompt, params)
}

func (c *countingGenerator) Name() string { return "counting" }

func (c *countingGenerator) counts() (total, hashtags int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total, c.hashtags
}

type fixture struct {
	orch  *Orchestrator
	gen   *countingGenerator
	store *cache.Memory
}

type fixtureOpts struct {
	threshold float64
	trends    trends.Provider
	music     music.Provider
	fail      error
	failIf    func(prompt string) error
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()
	if opts.threshold == 0 {
		opts.threshold = 0.6
	}
	if opts.trends == nil {
		opts.trends = trends.NewStaticProvider()
	}
	if opts.music == nil {
		opts.music = music.NewCatalogProvider()
	}

	gen := &countingGenerator{inner: backend.NewStaticGenerator(), fail: opts.fail, failIf: opts.failIf}
	client := backend.NewClient(gen, backend.ClientOptions{
		MaxRetries:  1,
		CallTimeout: time.Second,
		Budget:      backend.NewBudget(4),
		Logger:      zerolog.Nop(),
	})
	store := cache.NewMemory()
	orch := New(
		client,
		template.NewManager(),
		scorer.New(opts.threshold),
		store,
		opts.trends,
		opts.music,
		Config{MaxRetries: 2},
		zerolog.Nop(),
	)
	return &fixture{orch: orch, gen: gen, store: store}
}

func testRequest() domain.ContentRequest {
	return domain.ContentRequest{
		Topic:          "Morning skincare routine",
		Platform:       domain.PlatformInstagram,
		Tone:           "casual",
		TargetAudience: "Young professionals",
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	req := testRequest()
	req.IncludeMusic = true
	req.IncludeTrends = true

	plan, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if plan.Hook == "" || plan.Storyline == "" || plan.Script == "" {
		t.Fatalf("plan has empty narrative fields: %+v", plan)
	}
	if !strings.Contains(plan.Script, "Morning skincare routine") {
		t.Fatalf("script does not mention the topic: %q", plan.Script)
	}
	if err := domain.ValidateHashtags(plan.Hashtags, 5, 15); err != nil {
		t.Fatalf("hashtags invalid: %v", err)
	}
	if err := domain.ValidateTimestamps(plan.Timestamps, 90); err != nil {
		t.Fatalf("timestamps invalid: %v", err)
	}
	if plan.Timestamps[0].Start != 0 || plan.Timestamps[0].Type != domain.SegmentOpening {
		t.Fatalf("timeline does not open at zero: %+v", plan.Timestamps[0])
	}
	if plan.TrendContext == nil {
		t.Fatal("trend context missing despite include_trends")
	}
	if len(plan.MusicSuggestions) == 0 {
		t.Fatal("music suggestions missing despite include_music")
	}
	if plan.MusicSuggestions[0].Name != "Casual Sessions" {
		t.Fatalf("lead suggestion = %q, want mood-derived track", plan.MusicSuggestions[0].Name)
	}
	if plan.Degraded {
		t.Fatalf("plan degraded with score %v", plan.QualityScore)
	}
	if plan.QualityScore < 0.6 {
		t.Fatalf("QualityScore = %v, want >= 0.6", plan.QualityScore)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	req := testRequest()
	req.IncludeMusic = true
	req.IncludeTrends = true

	a, err := newFixture(t, fixtureOpts{}).orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	b, err := newFixture(t, fixtureOpts{}).orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	rawA, _ := json.Marshal(a)
	rawB, _ := json.Marshal(b)
	if string(rawA) != string(rawB) {
		t.Fatalf("plans differ across runs:\n%s\n%s", rawA, rawB)
	}
}

func TestGenerateCacheIdempotent(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	req := testRequest()

	first, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	callsAfterFirst, _ := f.gen.counts()
	if callsAfterFirst == 0 {
		t.Fatal("first Generate made no backend calls")
	}

	second, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	callsAfterSecond, _ := f.gen.counts()
	if callsAfterSecond != callsAfterFirst {
		t.Fatalf("cache hit still called backend: %d -> %d", callsAfterFirst, callsAfterSecond)
	}
	if f.store.Len() != 1 {
		t.Fatalf("cache holds %d plans, want 1", f.store.Len())
	}

	rawA, _ := json.Marshal(first)
	rawB, _ := json.Marshal(second)
	if string(rawA) != string(rawB) {
		t.Fatal("cached plan differs from generated plan")
	}
}

func TestGenerateBoundedRegeneration(t *testing.T) {
	// A threshold no heuristic plan reaches forces the full retry budget.
	f := newFixture(t, fixtureOpts{threshold: 0.99})
	req := testRequest()

	plan, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !plan.Degraded {
		t.Fatal("plan not marked degraded after exhausting retries")
	}
	if plan.QualityScore <= 0 || plan.QualityScore >= 0.99 {
		t.Fatalf("QualityScore = %v, want the best achieved score below threshold", plan.QualityScore)
	}
	if err := domain.ValidateTimestamps(plan.Timestamps, 90); err != nil {
		t.Fatalf("degraded plan still must be complete: %v", err)
	}

	total, hashtags := f.gen.counts()
	if hashtags != 1 {
		t.Fatalf("hashtag step ran %d times, want 1 (independent steps never rerun)", hashtags)
	}
	// Initial chain of four steps plus hashtags, then two regenerations of
	// the storyline..timestamps suffix.
	if total != 11 {
		t.Fatalf("backend calls = %d, want 11", total)
	}
}

func TestGenerateInvalidRequest(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	req := testRequest()
	req.Topic = "  "

	_, err := f.orch.Generate(context.Background(), req)
	var report *domain.FailureReport
	if !errors.As(err, &report) {
		t.Fatalf("Generate error = %T, want FailureReport", err)
	}
	if report.Kind != "invalid_request" {
		t.Fatalf("report kind = %q, want invalid_request", report.Kind)
	}
	if total, _ := f.gen.counts(); total != 0 {
		t.Fatalf("invalid request still hit the backend %d times", total)
	}
}

func TestGenerateBackendFailureReported(t *testing.T) {
	f := newFixture(t, fixtureOpts{fail: domain.ErrRateLimited})

	_, err := f.orch.Generate(context.Background(), testRequest())
	var report *domain.FailureReport
	if !errors.As(err, &report) {
		t.Fatalf("Generate error = %T, want FailureReport", err)
	}
	if report.Step != domain.StepHook {
		t.Fatalf("report step = %q, want hook (first dependent step)", report.Step)
	}
	if report.Kind != "rate_limited" {
		t.Fatalf("report kind = %q, want rate_limited", report.Kind)
	}
	if f.store.Len() != 0 {
		t.Fatal("failed session left a cached plan behind")
	}
}

func TestGenerateRecoversFromBackendInvalidResponse(t *testing.T) {
	// The plain hook template carries "stop the scroll"; the strict variant
	// does not. Flagging only the plain prompt simulates a backend that
	// returns garbage until asked more strictly.
	f := newFixture(t, fixtureOpts{failIf: func(prompt string) error {
		if strings.Contains(prompt, "stop the scroll") {
			return domain.ErrInvalidResponse
		}
		return nil
	}})

	plan, err := f.orch.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if plan.Hook == "" {
		t.Fatal("hook empty after strict-variant recovery")
	}
}

func TestGenerateMusicUnavailable(t *testing.T) {
	f := newFixture(t, fixtureOpts{music: music.Disabled{}})
	req := testRequest()
	req.IncludeMusic = true

	plan, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(plan.MusicSuggestions) != 0 {
		t.Fatalf("MusicSuggestions = %+v, want empty when provider unavailable", plan.MusicSuggestions)
	}
	raw, _ := json.Marshal(plan)
	if !strings.Contains(string(raw), `"music_suggestions":[]`) {
		t.Fatalf("music_suggestions must encode as empty list: %s", raw)
	}
}

func TestGenerateTrendsUnavailable(t *testing.T) {
	f := newFixture(t, fixtureOpts{trends: trends.Disabled{}})
	req := testRequest()
	req.IncludeTrends = true

	plan, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if plan.TrendContext != nil {
		t.Fatalf("TrendContext = %+v, want nil when provider unavailable", plan.TrendContext)
	}
	raw, _ := json.Marshal(plan)
	if strings.Contains(string(raw), "trend_context") {
		t.Fatalf("absent trend context must be omitted from JSON: %s", raw)
	}
}

func TestGenerateRespectsRequestedMaxDuration(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	req := testRequest()
	req.MaxDurationSeconds = 30

	plan, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if err := domain.ValidateTimestamps(plan.Timestamps, 30); err != nil {
		t.Fatalf("timeline exceeds requested duration: %v", err)
	}
}

func TestGeneratePlatformDefaultDuration(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	req := testRequest()
	req.Platform = domain.PlatformTikTok

	plan, err := f.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	// Without an explicit limit the platform's pacing window caps the timeline.
	if err := domain.ValidateTimestamps(plan.Timestamps, 60); err != nil {
		t.Fatalf("timeline exceeds platform window: %v", err)
	}
}

func TestGenerateCanceledContext(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orch.Generate(ctx, testRequest())
	if err == nil {
		t.Fatal("Generate succeeded with canceled context")
	}
	if f.store.Len() != 0 {
		t.Fatal("canceled session left a cached plan behind")
	}
}
