// Package scorer evaluates assembled content plans against a fixed rubric.
package scorer

import (
	"strings"
	"unicode"

	"reelplan/internal/domain"
)

// Weights per rubric dimension. They sum to 1 and the overall score is
// always the weighted average of the dimension scores.
var weights = map[domain.Dimension]float64{
	domain.DimensionHookStrength: 0.30,
	domain.DimensionRelevance:    0.25,
	domain.DimensionCoherence:    0.25,
	domain.DimensionPlatformFit:  0.20,
}

// Scorer computes a QualityAssessment for a plan. Scoring is pure: it never
// mutates the plan and the same inputs always produce the same assessment.
type Scorer struct {
	threshold float64
}

// New creates a scorer with the given pass threshold (recommended 0.6).
func New(threshold float64) *Scorer {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	return &Scorer{threshold: threshold}
}

// Threshold reports the configured pass threshold.
func (s *Scorer) Threshold() float64 { return s.threshold }

// Score evaluates plan against request across all rubric dimensions.
func (s *Scorer) Score(plan *domain.ContentPlan, req domain.ContentRequest) domain.QualityAssessment {
	dims := map[domain.Dimension]float64{
		domain.DimensionHookStrength: hookStrength(plan.Hook),
		domain.DimensionRelevance:    relevance(plan, req),
		domain.DimensionCoherence:    coherence(plan),
		domain.DimensionPlatformFit:  platformFit(plan, req.Platform),
	}
	overall := 0.0
	for _, dim := range domain.Dimensions {
		overall += weights[dim] * dims[dim]
	}
	return domain.QualityAssessment{
		OverallScore:    overall,
		DimensionScores: dims,
		Passed:          overall >= s.threshold,
	}
}

func hookStrength(hook string) float64 {
	hook = strings.TrimSpace(hook)
	if hook == "" {
		return 0
	}
	length := float64(len(hook))
	lengthScore := clamp01(length / 40)
	if length > 160 {
		lengthScore = 0.6
	}
	score := 0.6 * lengthScore
	if strings.ContainsAny(hook, "?!") {
		score += 0.15
	}
	if strings.ContainsFunc(hook, unicode.IsDigit) {
		score += 0.10
	}
	if containsWord(strings.ToLower(hook), "you") || containsWord(strings.ToLower(hook), "your") {
		score += 0.15
	}
	return clamp01(score)
}

func relevance(plan *domain.ContentPlan, req domain.ContentRequest) float64 {
	body := strings.ToLower(plan.Hook + " " + plan.Storyline + " " + plan.Script)
	topicFrac := keywordCoverage(body, req.Topic)
	audienceFrac := keywordCoverage(body, req.TargetAudience)
	return clamp01(0.2 + 0.6*topicFrac + 0.2*audienceFrac)
}

func coherence(plan *domain.ContentPlan) float64 {
	sentences := countSentences(plan.Script)
	sentenceScore := 0.0
	switch {
	case sentences >= 4 && sentences <= 20:
		sentenceScore = 1
	case sentences > 0:
		sentenceScore = 0.5
	}
	storylineScore := 0.0
	switch {
	case countSentences(plan.Storyline) >= 2:
		storylineScore = 1
	case strings.TrimSpace(plan.Storyline) != "":
		storylineScore = 0.5
	}
	lengthScore := clamp01(float64(len(plan.Script)) / 200)
	return (sentenceScore + storylineScore + lengthScore) / 3
}

// Platform pacing windows in seconds: where a video of this length performs.
var platformWindow = map[domain.Platform][2]int{
	domain.PlatformInstagram:     {15, 90},
	domain.PlatformYouTubeShorts: {10, 60},
	domain.PlatformTikTok:        {15, 60},
}

func platformFit(plan *domain.ContentPlan, platform domain.Platform) float64 {
	durationScore := 0.0
	if n := len(plan.Timestamps); n > 0 {
		end := plan.Timestamps[n-1].End
		window := platformWindow[platform]
		if end >= window[0] && end <= window[1] {
			durationScore = 1
		} else {
			durationScore = 0.4
		}
	}
	tagScore := 0.0
	switch n := len(plan.Hashtags); {
	case n >= 3 && n <= 15:
		tagScore = 1
	case n > 0:
		tagScore = 0.5
	}
	pacingScore := 0.0
	if n := len(plan.Timestamps); n > 0 {
		seconds := plan.Timestamps[n-1].End
		words := len(strings.Fields(plan.Script))
		if seconds > 0 {
			rate := float64(words) / float64(seconds)
			if rate >= 1.5 && rate <= 3.5 {
				pacingScore = 1
			} else {
				pacingScore = 0.5
			}
		}
	}
	return (durationScore + tagScore + pacingScore) / 3
}

func keywordCoverage(body, phrase string) float64 {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(phrase)) {
		word = strings.Trim(word, ".,!?\"'")
		if len(word) > 3 {
			keywords = append(keywords, word)
		}
	}
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(body, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

func countSentences(text string) int {
	count := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

func containsWord(body, word string) bool {
	for _, field := range strings.Fields(body) {
		if strings.Trim(field, ".,!?\"'") == word {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
