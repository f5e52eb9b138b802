package domain

// Dimension names one axis of the quality rubric.
type Dimension string

const (
	DimensionHookStrength Dimension = "hook_strength"
	DimensionRelevance    Dimension = "relevance"
	DimensionCoherence    Dimension = "coherence"
	DimensionPlatformFit  Dimension = "platform_fit"
)

// Dimensions lists the rubric axes in a fixed order.
var Dimensions = []Dimension{
	DimensionHookStrength,
	DimensionRelevance,
	DimensionCoherence,
	DimensionPlatformFit,
}

// QualityAssessment is the scorer's verdict over an assembled plan. The
// overall score is always derived from the dimension scores via the scorer's
// fixed weights, never set independently.
type QualityAssessment struct {
	OverallScore    float64               `json:"overall_score"`
	DimensionScores map[Dimension]float64 `json:"dimension_scores"`
	Passed          bool                  `json:"passed"`
}

// Weakest returns the lowest-scoring dimension, breaking ties by the fixed
// dimension order so regeneration is deterministic.
func (a QualityAssessment) Weakest() Dimension {
	weakest := Dimensions[0]
	lowest := 2.0
	for _, dim := range Dimensions {
		score, ok := a.DimensionScores[dim]
		if !ok {
			continue
		}
		if score < lowest {
			lowest = score
			weakest = dim
		}
	}
	return weakest
}
