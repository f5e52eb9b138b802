package cache

import (
	"context"
	"errors"
	"testing"

	"reelplan/internal/domain"
)

func samplePlan() *domain.ContentPlan {
	return &domain.ContentPlan{
		Hook:     "What if this took one minute?",
		Hashtags: []string{"one", "two", "three", "four", "five"},
		Timestamps: []domain.SceneTimestamp{
			{Start: 0, End: 5, Text: "hook", Type: domain.SegmentOpening},
		},
		QualityScore: 0.8,
	}
}

func TestMemoryMissThenHit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "fp"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get on empty cache = %v, want ErrMiss", err)
	}

	if err := m.Put(ctx, "fp", samplePlan()); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got, err := m.Get(ctx, "fp")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Hook != "What if this took one minute?" {
		t.Fatalf("Get returned wrong plan: %+v", got)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestMemoryIsolatesCallers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	original := samplePlan()
	if err := m.Put(ctx, "fp", original); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	original.Hashtags[0] = "mutated-after-put"

	got, err := m.Get(ctx, "fp")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Hashtags[0] != "one" {
		t.Fatal("cache stored a shared reference instead of a copy")
	}

	got.Hashtags[1] = "mutated-after-get"
	again, _ := m.Get(ctx, "fp")
	if again.Hashtags[1] != "two" {
		t.Fatal("caller mutation leaked into the cache")
	}
}

func TestMemoryLastWriterWins(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first := samplePlan()
	second := samplePlan()
	second.Hook = "second write"

	if err := m.Put(ctx, "fp", first); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := m.Put(ctx, "fp", second); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := m.Get(ctx, "fp")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Hook != "second write" {
		t.Fatalf("Hook = %q, want the later write", got.Hook)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestMemoryHonorsContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Get(ctx, "fp"); err == nil || errors.Is(err, ErrMiss) {
		t.Fatalf("Get with canceled context = %v, want context error", err)
	}
	if err := m.Put(ctx, "fp", samplePlan()); err == nil {
		t.Fatal("Put with canceled context succeeded")
	}
}
