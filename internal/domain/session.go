package domain

import "time"

// StepName enumerates the generation steps of a session.
type StepName string

const (
	StepHook       StepName = "hook"
	StepStoryline  StepName = "storyline"
	StepScript     StepName = "script"
	StepTimestamps StepName = "timestamps"
	StepHashtags   StepName = "hashtags"
	StepTrends     StepName = "trends"
	StepMusic      StepName = "music"
)

// DependentSteps is the ordered chain where each step's prompt consumes the
// outputs of the steps before it.
var DependentSteps = []StepName{StepHook, StepStoryline, StepScript, StepTimestamps}

// SessionState enumerates the lifecycle of a generation session.
type SessionState string

const (
	SessionCreated      SessionState = "created"
	SessionDrafting     SessionState = "drafting"
	SessionScoring      SessionState = "scoring"
	SessionRegenerating SessionState = "regenerating"
	SessionAccepted     SessionState = "accepted"
	SessionExhausted    SessionState = "exhausted"
	SessionFailed       SessionState = "failed"
)

// GenerationStepResult records one step invocation, including the attempt
// count the backend needed.
type GenerationStepResult struct {
	Step       StepName
	Text       string
	Latency    time.Duration
	Attempt    int
	BackendErr error
}

// GenerationSession binds one request to its step results, current draft and
// latest assessment. It is owned by the orchestrator for the lifetime of the
// request and discarded once a terminal state is reached.
type GenerationSession struct {
	ID              string
	Request         ContentRequest
	Fingerprint     string
	TemplateVersion int
	Steps           []GenerationStepResult
	Outputs         map[StepName]string
	Draft           *ContentPlan
	Assessment      *QualityAssessment
	Retries         int
	State           SessionState
}

// NewSession starts a session for a request.
func NewSession(id string, req ContentRequest) *GenerationSession {
	return &GenerationSession{
		ID:          id,
		Request:     req,
		Fingerprint: req.Fingerprint(),
		Outputs:     make(map[StepName]string),
		State:       SessionCreated,
	}
}

// Record appends a step result and keeps the latest output per step.
func (s *GenerationSession) Record(res GenerationStepResult) {
	s.Steps = append(s.Steps, res)
	if res.BackendErr == nil {
		s.Outputs[res.Step] = res.Text
	}
}
