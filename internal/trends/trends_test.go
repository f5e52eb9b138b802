package trends

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelplan/internal/domain"
)

func TestStaticProviderDeterministic(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	a, err := p.Lookup(ctx, "Meal prep", domain.PlatformTikTok)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	b, _ := p.Lookup(ctx, "Meal prep", domain.PlatformTikTok)

	rawA, _ := json.Marshal(a)
	rawB, _ := json.Marshal(b)
	if string(rawA) != string(rawB) {
		t.Fatal("static lookups differ for identical input")
	}
	if a.Hashtags[0] != "mealprep" {
		t.Fatalf("Hashtags[0] = %q, want topic-derived tag", a.Hashtags[0])
	}
	if a.EngagementTips == "" {
		t.Fatal("engagement tips missing")
	}
}

func TestStaticProviderUnknownPlatform(t *testing.T) {
	p := NewStaticProvider()
	_, err := p.Lookup(context.Background(), "Meal prep", "myspace")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Lookup error = %v, want ErrUnavailable", err)
	}
}

func TestDisabledProvider(t *testing.T) {
	_, err := Disabled{}.Lookup(context.Background(), "anything", domain.PlatformTikTok)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Lookup error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPProviderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("topic"); got != "meal prep" {
			t.Errorf("topic query = %q", got)
		}
		if got := r.URL.Query().Get("platform"); got != "tiktok" {
			t.Errorf("platform query = %q", got)
		}
		_ = json.NewEncoder(w).Encode(domain.TrendSignal{
			Hashtags: []string{"mealprep"},
			Score:    0.8,
		})
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPProvider returned error: %v", err)
	}
	signal, err := p.Lookup(context.Background(), "meal prep", domain.PlatformTikTok)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if signal.Score != 0.8 || len(signal.Hashtags) != 1 {
		t.Fatalf("unexpected signal: %+v", signal)
	}
}

func TestHTTPProviderDegradesToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPProvider returned error: %v", err)
	}
	if _, err := p.Lookup(context.Background(), "x", domain.PlatformTikTok); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Lookup error = %v, want ErrUnavailable", err)
	}

	// Unreachable host is unavailability too, not a hard failure.
	down, _ := NewHTTPProvider("http://127.0.0.1:1", nil)
	if _, err := down.Lookup(context.Background(), "x", domain.PlatformTikTok); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Lookup error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPProviderRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPProvider("", nil); err == nil {
		t.Fatal("NewHTTPProvider accepted empty base url")
	}
}
