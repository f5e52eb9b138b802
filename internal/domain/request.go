package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Platform enumerates the supported publishing targets.
type Platform string

const (
	PlatformInstagram     Platform = "instagram"
	PlatformYouTubeShorts Platform = "youtube_shorts"
	PlatformTikTok        Platform = "tiktok"
)

// ParsePlatform validates a raw platform value.
func ParsePlatform(raw string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(raw))) {
	case PlatformInstagram:
		return PlatformInstagram, nil
	case PlatformYouTubeShorts:
		return PlatformYouTubeShorts, nil
	case PlatformTikTok:
		return PlatformTikTok, nil
	default:
		return "", fmt.Errorf("%w: platform %q", ErrInvalidRequest, raw)
	}
}

// ContentRequest is the immutable brief a caller submits. Its fingerprint is
// the cache key and the unit of idempotence.
type ContentRequest struct {
	Topic              string   `json:"topic"`
	Platform           Platform `json:"platform"`
	Tone               string   `json:"tone"`
	TargetAudience     string   `json:"target_audience"`
	IncludeMusic       bool     `json:"include_music"`
	IncludeTrends      bool     `json:"include_trends"`
	MaxDurationSeconds int      `json:"max_duration_seconds,omitempty"`
}

// Validate checks that the request carries everything generation needs.
func (r ContentRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if _, err := ParsePlatform(string(r.Platform)); err != nil {
		return err
	}
	if strings.TrimSpace(r.Tone) == "" {
		return fmt.Errorf("%w: tone is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.TargetAudience) == "" {
		return fmt.Errorf("%w: target_audience is required", ErrInvalidRequest)
	}
	if r.MaxDurationSeconds < 0 {
		return fmt.Errorf("%w: max_duration_seconds must not be negative", ErrInvalidRequest)
	}
	return nil
}

// Fingerprint returns a deterministic hash over every request field. Two
// requests with the same fingerprint are interchangeable for caching.
func (r ContentRequest) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "topic=%s\n", strings.TrimSpace(r.Topic))
	fmt.Fprintf(h, "platform=%s\n", r.Platform)
	fmt.Fprintf(h, "tone=%s\n", strings.TrimSpace(r.Tone))
	fmt.Fprintf(h, "audience=%s\n", strings.TrimSpace(r.TargetAudience))
	fmt.Fprintf(h, "music=%t\n", r.IncludeMusic)
	fmt.Fprintf(h, "trends=%t\n", r.IncludeTrends)
	fmt.Fprintf(h, "max_duration=%d\n", r.MaxDurationSeconds)
	return hex.EncodeToString(h.Sum(nil))
}
