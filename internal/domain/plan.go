package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// SegmentType classifies a scene within the script timeline.
type SegmentType string

const (
	SegmentOpening SegmentType = "opening"
	SegmentBody    SegmentType = "body"
	SegmentClosing SegmentType = "closing"
)

// EnergyLevel describes how intense a suggested track is.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// SceneTimestamp marks one scene of the script on the video timeline.
type SceneTimestamp struct {
	Start int         `json:"start"`
	End   int         `json:"end"`
	Text  string      `json:"text"`
	Type  SegmentType `json:"type"`
}

// MusicSuggestion is one ranked track recommendation.
type MusicSuggestion struct {
	Name        string      `json:"name"`
	Artist      string      `json:"artist"`
	EnergyLevel EnergyLevel `json:"energy_level"`
}

// TrendSignal carries relevance context from the trend provider.
type TrendSignal struct {
	Hashtags       []string `json:"hashtags"`
	Topics         []string `json:"topics"`
	EngagementTips string   `json:"engagement_tips"`
	Score          float64  `json:"score"`
}

// ContentPlan is the finished generation output. Field order matches the
// documented response shape.
type ContentPlan struct {
	Hook             string            `json:"hook"`
	Storyline        string            `json:"storyline"`
	Script           string            `json:"script"`
	Hashtags         []string          `json:"hashtags"`
	MusicSuggestions []MusicSuggestion `json:"music_suggestions"`
	Timestamps       []SceneTimestamp  `json:"timestamps"`
	TrendContext     *TrendSignal      `json:"trend_context,omitempty"`
	Degraded         bool              `json:"degraded"`
	QualityScore     float64           `json:"quality_score"`
}

// Clone returns a deep copy so cached plans cannot be mutated by callers.
func (p *ContentPlan) Clone() *ContentPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.Hashtags = append([]string(nil), p.Hashtags...)
	out.MusicSuggestions = append([]MusicSuggestion(nil), p.MusicSuggestions...)
	out.Timestamps = append([]SceneTimestamp(nil), p.Timestamps...)
	if p.TrendContext != nil {
		tc := *p.TrendContext
		tc.Hashtags = append([]string(nil), p.TrendContext.Hashtags...)
		tc.Topics = append([]string(nil), p.TrendContext.Topics...)
		out.TrendContext = &tc
	}
	return &out
}

// ValidateTimestamps enforces the timeline invariants: entries sorted by
// start, strictly increasing, non-overlapping, and the final end within
// maxDuration when one is set.
func ValidateTimestamps(ts []SceneTimestamp, maxDuration int) error {
	prevEnd := 0
	for i, t := range ts {
		if t.Start < 0 || t.End <= t.Start {
			return fmt.Errorf("timestamp %d: invalid range %d-%d", i, t.Start, t.End)
		}
		if t.Start < prevEnd {
			return fmt.Errorf("timestamp %d: overlaps previous segment", i)
		}
		switch t.Type {
		case SegmentOpening, SegmentBody, SegmentClosing:
		default:
			return fmt.Errorf("timestamp %d: unknown type %q", i, t.Type)
		}
		prevEnd = t.End
	}
	if maxDuration > 0 && prevEnd > maxDuration {
		return fmt.Errorf("timeline ends at %ds, exceeds %ds", prevEnd, maxDuration)
	}
	return nil
}

// ValidateHashtags enforces the hashtag invariants: count within [min,max],
// every entry non-empty without whitespace, no case-insensitive duplicates.
func ValidateHashtags(tags []string, min, max int) error {
	if len(tags) < min || len(tags) > max {
		return fmt.Errorf("hashtag count %d outside [%d,%d]", len(tags), min, max)
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			return fmt.Errorf("empty hashtag")
		}
		if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
			return fmt.Errorf("hashtag %q contains whitespace", tag)
		}
		lower := strings.ToLower(tag)
		if _, ok := seen[lower]; ok {
			return fmt.Errorf("duplicate hashtag %q", tag)
		}
		seen[lower] = struct{}{}
	}
	return nil
}
