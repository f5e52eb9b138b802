package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"reelplan/internal/domain"
)

// cleanText strips code fences and a leading "LABEL:" line the backend may
// echo from the prompt.
func cleanText(raw string) string {
	text := strings.TrimSpace(trimCodeFence(raw))
	for _, label := range []string{"HOOK:", "STORYLINE:", "SCRIPT:", "Hook:", "Storyline:", "Script:"} {
		if strings.HasPrefix(text, label) {
			text = strings.TrimSpace(strings.TrimPrefix(text, label))
			break
		}
	}
	return text
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// parseTimestamps decodes "start-end|type|text" lines and enforces the
// timeline invariants.
func parseTimestamps(raw string, maxDuration int) ([]domain.SceneTimestamp, error) {
	var out []domain.SceneTimestamp
	for _, line := range strings.Split(strings.TrimSpace(trimCodeFence(raw)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: timestamp line %q", domain.ErrInvalidResponse, line)
		}
		span := strings.SplitN(strings.TrimSpace(parts[0]), "-", 2)
		if len(span) != 2 {
			return nil, fmt.Errorf("%w: timestamp span %q", domain.ErrInvalidResponse, parts[0])
		}
		start, err := strconv.Atoi(strings.TrimSpace(span[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp start %q", domain.ErrInvalidResponse, span[0])
		}
		end, err := strconv.Atoi(strings.TrimSpace(span[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp end %q", domain.ErrInvalidResponse, span[1])
		}
		out = append(out, domain.SceneTimestamp{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(parts[2]),
			Type:  domain.SegmentType(strings.TrimSpace(parts[1])),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no timestamp lines", domain.ErrInvalidResponse)
	}
	if err := domain.ValidateTimestamps(out, maxDuration); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return out, nil
}

// encodeTimestamps is the inverse of parseTimestamps, used to store fallback
// timelines in the same step-output format.
func encodeTimestamps(ts []domain.SceneTimestamp) string {
	lines := make([]string, 0, len(ts))
	for _, t := range ts {
		lines = append(lines, fmt.Sprintf("%d-%d|%s|%s", t.Start, t.End, t.Type, t.Text))
	}
	return strings.Join(lines, "\n")
}

// fallbackTimestamps estimates a timeline from the script when the backend
// cannot produce a parsable one: two to four seconds per sentence depending
// on length, clamped to maxDuration.
func fallbackTimestamps(script string, maxDuration int) []domain.SceneTimestamp {
	var sentences []string
	for _, s := range strings.Split(script, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil
	}
	var out []domain.SceneTimestamp
	current := 0
	for i, sentence := range sentences {
		duration := len(sentence) / 20
		if duration < 2 {
			duration = 2
		}
		if duration > 4 {
			duration = 4
		}
		end := current + duration
		if maxDuration > 0 && end > maxDuration {
			break
		}
		segType := domain.SegmentBody
		switch i {
		case 0:
			segType = domain.SegmentOpening
		case len(sentences) - 1:
			segType = domain.SegmentClosing
		}
		out = append(out, domain.SceneTimestamp{Start: current, End: end, Text: sentence, Type: segType})
		current = end
	}
	if n := len(out); n > 0 && out[n-1].Type == domain.SegmentBody {
		out[n-1].Type = domain.SegmentClosing
	}
	return out
}

// parseHashtags extracts #tags from backend output, strips the marker,
// deduplicates case-insensitively preserving insertion order, and enforces
// the configured bounds (truncating above max, failing below min).
func parseHashtags(raw string, min, max int) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, field := range strings.Fields(trimCodeFence(raw)) {
		if !strings.HasPrefix(field, "#") {
			continue
		}
		tag := strings.Trim(strings.TrimPrefix(field, "#"), ".,;:!?")
		if tag == "" {
			continue
		}
		lower := strings.ToLower(tag)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, tag)
		if len(out) == max {
			break
		}
	}
	if len(out) < min {
		return nil, fmt.Errorf("%w: %d hashtags, need at least %d", domain.ErrInvalidResponse, len(out), min)
	}
	return out, nil
}

// Per-platform seed tags for the deterministic hashtag fallback.
var fallbackSeeds = map[domain.Platform][]string{
	domain.PlatformInstagram:     {"reels", "instagram", "viral", "trending", "explore"},
	domain.PlatformYouTubeShorts: {"shorts", "youtube", "viral", "trending", "youtuber"},
	domain.PlatformTikTok:        {"tiktok", "fyp", "foryou", "viral", "trending"},
}

var fallbackFillers = []string{"content", "creator", "socialmedia", "digital", "howto", "tips"}

// fallbackHashtags builds the deterministic template-based default used when
// generation cannot produce a valid set.
func fallbackHashtags(topic string, platform domain.Platform, min, max int) []string {
	base := compactTag(topic)
	candidates := []string{base, base + "tips", base + "ideas"}
	candidates = append(candidates, fallbackSeeds[platform]...)
	candidates = append(candidates, fallbackFillers...)

	seen := make(map[string]struct{})
	var out []string
	for _, tag := range candidates {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == max {
			break
		}
	}
	if len(out) > min {
		// Keep the fallback compact: the minimum bound plus topic variety.
		target := min
		if target < 5 && len(out) >= 5 {
			target = 5
		}
		out = out[:target]
	}
	return out
}

func compactTag(topic string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(topic) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
