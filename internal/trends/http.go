package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"reelplan/internal/domain"
)

// HTTPProvider queries an external trend service. Any transport failure or
// timeout degrades to Unavailable so the plan is assembled without a signal.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, client *http.Client) (*HTTPProvider, error) {
	if baseURL == "" {
		return nil, errors.New("trend service url is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{baseURL: baseURL, client: client}, nil
}

func (p *HTTPProvider) Lookup(ctx context.Context, topic string, platform domain.Platform) (*domain.TrendSignal, error) {
	endpoint := fmt.Sprintf("%s/v1/trends?topic=%s&platform=%s",
		p.baseURL, url.QueryEscape(topic), url.QueryEscape(string(platform)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: trend service status %d", domain.ErrUnavailable, resp.StatusCode)
	}
	var signal domain.TrendSignal
	if err := json.NewDecoder(resp.Body).Decode(&signal); err != nil {
		return nil, fmt.Errorf("%w: decode trend signal: %v", domain.ErrUnavailable, err)
	}
	return &signal, nil
}

var _ Provider = (*HTTPProvider)(nil)
