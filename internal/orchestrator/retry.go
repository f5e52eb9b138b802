package orchestrator

import "reelplan/internal/domain"

// regenerationEntry is the targeted-retry decision table: the weakest-scoring
// quality dimension maps to the first dependent step to rerun. The chain
// always reruns from that step through to timestamps, because each later step
// consumes the outputs of the earlier ones.
var regenerationEntry = map[domain.Dimension]domain.StepName{
	domain.DimensionHookStrength: domain.StepHook,
	domain.DimensionRelevance:    domain.StepStoryline,
	domain.DimensionCoherence:    domain.StepScript,
	domain.DimensionPlatformFit:  domain.StepScript,
}

// chainFrom returns the dependent-step suffix starting at entry.
func chainFrom(entry domain.StepName) []domain.StepName {
	for i, step := range domain.DependentSteps {
		if step == entry {
			return domain.DependentSteps[i:]
		}
	}
	return domain.DependentSteps
}
