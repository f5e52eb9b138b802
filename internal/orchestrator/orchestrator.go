// Package orchestrator drives the generation pipeline: it sequences the
// model-backed steps, assembles their outputs into one plan, scores the
// result and decides whether to accept or regenerate.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"reelplan/internal/backend"
	"reelplan/internal/cache"
	"reelplan/internal/domain"
	"reelplan/internal/music"
	"reelplan/internal/scorer"
	"reelplan/internal/template"
	"reelplan/internal/trends"
)

// Config tunes the orchestration policy.
type Config struct {
	// MaxRetries bounds plan-level regenerations after a failed assessment.
	MaxRetries int
	// OptionalStepTimeout caps each independent provider lookup.
	OptionalStepTimeout time.Duration
	// HashtagMin and HashtagMax bound the accepted hashtag count.
	HashtagMin int
	HashtagMax int
	// StrictOptionalSteps escalates real provider errors (not Unavailable)
	// on independent steps to a session failure instead of degrading.
	StrictOptionalSteps bool
	// MaxTokens and Temperature are passed to every backend call.
	MaxTokens   int
	Temperature float64
}

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.OptionalStepTimeout <= 0 {
		c.OptionalStepTimeout = 10 * time.Second
	}
	if c.HashtagMin <= 0 {
		c.HashtagMin = 5
	}
	if c.HashtagMax < c.HashtagMin {
		c.HashtagMax = 15
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.7
	}
	return c
}

// DefaultConfig returns the recommended policy: two regenerations, hashtag
// bounds [5,15], silent degradation of optional steps.
func DefaultConfig() Config {
	return Config{MaxRetries: 2}.withDefaults()
}

// Orchestrator owns the generation session for the lifetime of one request.
type Orchestrator struct {
	backend   *backend.Client
	templates *template.Manager
	scorer    *scorer.Scorer
	cache     cache.ResultCache
	trends    trends.Provider
	music     music.Provider
	cfg       Config
	logger    zerolog.Logger
}

// New wires the orchestrator with its collaborators. The trend and music
// providers may be the Disabled implementations but must not be nil.
func New(client *backend.Client, templates *template.Manager, sc *scorer.Scorer, store cache.ResultCache, trendProvider trends.Provider, musicProvider music.Provider, cfg Config, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		backend:   client,
		templates: templates,
		scorer:    sc,
		cache:     store,
		trends:    trendProvider,
		music:     musicProvider,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// independentResults collects the outputs of the concurrent independent
// steps. Their relative completion order never affects plan content.
type independentResults struct {
	hashtags []string
	trend    *domain.TrendSignal
	tracks   []domain.MusicSuggestion
}

// Generate runs the full pipeline for one request and returns either a
// complete plan (possibly degraded) or a *domain.FailureReport.
func (o *Orchestrator) Generate(ctx context.Context, req domain.ContentRequest) (*domain.ContentPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewFailure("request", err)
	}

	fingerprint := req.Fingerprint()
	if plan, err := o.cache.Get(ctx, fingerprint); err == nil {
		o.logger.Debug().Str("fingerprint", fingerprint).Msg("cache hit")
		return plan, nil
	} else if !errors.Is(err, cache.ErrMiss) && ctx.Err() == nil {
		o.logger.Warn().Err(err).Msg("cache lookup failed, generating")
	}

	session := domain.NewSession(uuid.NewString(), req)
	if version, err := o.templates.LatestVersion(string(domain.StepHook), req.Platform); err == nil {
		session.TemplateVersion = version
	}
	logger := o.logger.With().Str("session_id", session.ID).Str("fingerprint", fingerprint).Logger()

	session.State = domain.SessionDrafting
	if err := o.runChain(ctx, session, domain.StepHook); err != nil {
		session.State = domain.SessionFailed
		return nil, err
	}

	indep, err := o.runIndependentSteps(ctx, session)
	if err != nil {
		session.State = domain.SessionFailed
		return nil, err
	}

	draft, err := o.assemble(session, indep)
	if err != nil {
		session.State = domain.SessionFailed
		return nil, err
	}

	session.State = domain.SessionScoring
	assessment := o.scorer.Score(draft, req)
	session.Assessment = &assessment

	for !assessment.Passed && session.Retries < o.cfg.MaxRetries {
		session.Retries++
		entry := regenerationEntry[assessment.Weakest()]
		logger.Info().
			Str("weakest", string(assessment.Weakest())).
			Str("entry_step", string(entry)).
			Int("retry", session.Retries).
			Float64("score", assessment.OverallScore).
			Msg("quality below threshold, regenerating")

		session.State = domain.SessionRegenerating
		if err := o.runChain(ctx, session, entry); err != nil {
			session.State = domain.SessionFailed
			return nil, err
		}
		draft, err = o.assemble(session, indep)
		if err != nil {
			session.State = domain.SessionFailed
			return nil, err
		}
		session.State = domain.SessionScoring
		assessment = o.scorer.Score(draft, req)
		session.Assessment = &assessment
	}

	draft.Degraded = !assessment.Passed
	draft.QualityScore = assessment.OverallScore
	if assessment.Passed {
		session.State = domain.SessionAccepted
	} else {
		session.State = domain.SessionExhausted
		logger.Warn().Float64("score", assessment.OverallScore).Msg("finalizing degraded plan")
	}

	// Nothing is cached on cancellation.
	if ctx.Err() == nil {
		if err := o.cache.Put(ctx, fingerprint, draft); err != nil {
			logger.Warn().Err(err).Msg("cache write failed")
		}
	}
	return draft, nil
}

// runChain executes the dependent steps from entry through timestamps, each
// prompt built from the outputs of the steps before it.
func (o *Orchestrator) runChain(ctx context.Context, session *domain.GenerationSession, entry domain.StepName) error {
	for _, step := range chainFrom(entry) {
		if err := o.runDependentStep(ctx, session, step); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) runDependentStep(ctx context.Context, session *domain.GenerationSession, step domain.StepName) error {
	text, attempts, latency, err := o.completeStep(ctx, session, string(step), o.stepBindings(session, step))
	var parsed string
	var parseErr error
	if err == nil {
		parsed, parseErr = o.parseStep(session, step, text)
	} else if !errors.Is(err, domain.ErrInvalidResponse) {
		session.Record(domain.GenerationStepResult{Step: step, Attempt: attempts, Latency: latency, BackendErr: err})
		return domain.NewFailure(step, err)
	}

	if err != nil || parseErr != nil {
		// Malformed output, whether flagged by the backend or caught at
		// parse time: one retry with the stricter prompt variant, then
		// the deterministic fallback where one exists.
		text, attempts, latency, err = o.completeStep(ctx, session, string(step)+"_strict", o.stepBindings(session, step))
		if err == nil {
			parsed, parseErr = o.parseStep(session, step, text)
		}
		if err != nil || parseErr != nil {
			if step == domain.StepTimestamps {
				if ts := fallbackTimestamps(session.Outputs[domain.StepScript], o.maxDuration(session.Request)); len(ts) > 0 {
					session.Record(domain.GenerationStepResult{Step: step, Text: encodeTimestamps(ts), Attempt: attempts, Latency: latency})
					return nil
				}
			}
			failure := parseErr
			if failure == nil {
				failure = err
			}
			return domain.NewFailure(step, failure)
		}
	}

	session.Record(domain.GenerationStepResult{Step: step, Text: parsed, Attempt: attempts, Latency: latency})
	return nil
}

// completeStep renders the named template at the session's pinned version
// and runs one guarded backend call.
func (o *Orchestrator) completeStep(ctx context.Context, session *domain.GenerationSession, templateName string, bindings map[string]string) (string, int, time.Duration, error) {
	prompt, err := o.templates.Render(templateName, session.Request.Platform, bindings)
	if err != nil {
		return "", 0, 0, err
	}
	start := time.Now()
	text, attempts, err := o.backend.Complete(ctx, prompt, backend.Params{
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	})
	return text, attempts, time.Since(start), err
}

// parseStep validates a step's raw output and returns the canonical text to
// store as the step result.
func (o *Orchestrator) parseStep(session *domain.GenerationSession, step domain.StepName, raw string) (string, error) {
	switch step {
	case domain.StepTimestamps:
		ts, err := parseTimestamps(raw, o.maxDuration(session.Request))
		if err != nil {
			return "", err
		}
		return encodeTimestamps(ts), nil
	default:
		text := cleanText(raw)
		if text == "" {
			return "", fmt.Errorf("%w: empty %s", domain.ErrInvalidResponse, step)
		}
		return text, nil
	}
}

func (o *Orchestrator) stepBindings(session *domain.GenerationSession, step domain.StepName) map[string]string {
	req := session.Request
	bindings := map[string]string{
		"topic":        req.Topic,
		"platform":     string(req.Platform),
		"tone":         req.Tone,
		"audience":     req.TargetAudience,
		"max_duration": strconv.Itoa(o.maxDuration(req)),
		"min_tags":     strconv.Itoa(o.cfg.HashtagMin),
		"max_tags":     strconv.Itoa(o.cfg.HashtagMax),
	}
	switch step {
	case domain.StepStoryline:
		bindings["hook"] = session.Outputs[domain.StepHook]
	case domain.StepScript:
		bindings["hook"] = session.Outputs[domain.StepHook]
		bindings["storyline"] = session.Outputs[domain.StepStoryline]
	case domain.StepTimestamps:
		bindings["script"] = session.Outputs[domain.StepScript]
	}
	return bindings
}

// maxDuration resolves the effective timeline bound: the request's limit, or
// the platform's pacing window when the request leaves it open.
func (o *Orchestrator) maxDuration(req domain.ContentRequest) int {
	if req.MaxDurationSeconds > 0 {
		return req.MaxDurationSeconds
	}
	switch req.Platform {
	case domain.PlatformInstagram:
		return 90
	default:
		return 60
	}
}

// runIndependentSteps dispatches hashtags, trend lookup and music suggestion
// concurrently and waits for all of them. Optional providers degrade to empty
// results unless the strict policy is on.
func (o *Orchestrator) runIndependentSteps(ctx context.Context, session *domain.GenerationSession) (independentResults, error) {
	var results independentResults
	req := session.Request

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tags, err := o.generateHashtags(gctx, session)
		if err != nil {
			return err
		}
		results.hashtags = tags
		return nil
	})

	if req.IncludeTrends {
		g.Go(func() error {
			lookupCtx, cancel := context.WithTimeout(gctx, o.cfg.OptionalStepTimeout)
			defer cancel()
			signal, err := o.trends.Lookup(lookupCtx, req.Topic, req.Platform)
			if err != nil {
				return o.optionalStepError(domain.StepTrends, err)
			}
			results.trend = signal
			return nil
		})
	}

	if req.IncludeMusic {
		g.Go(func() error {
			suggestCtx, cancel := context.WithTimeout(gctx, o.cfg.OptionalStepTimeout)
			defer cancel()
			tracks, err := o.music.Suggest(suggestCtx, req.Tone, music.EnergyForTone(req.Tone))
			if err != nil {
				return o.optionalStepError(domain.StepMusic, err)
			}
			results.tracks = tracks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return independentResults{}, err
	}
	return results, nil
}

// optionalStepError decides whether an optional provider failure degrades
// silently or escalates. Unavailable always degrades; a caller cancellation
// always escalates.
func (o *Orchestrator) optionalStepError(step domain.StepName, err error) error {
	if errors.Is(err, context.Canceled) {
		return domain.NewFailure(step, err)
	}
	if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		o.logger.Debug().Str("step", string(step)).Msg("optional provider unavailable")
		return nil
	}
	if o.cfg.StrictOptionalSteps {
		return domain.NewFailure(step, err)
	}
	o.logger.Warn().Err(err).Str("step", string(step)).Msg("optional step degraded")
	return nil
}

// generateHashtags runs the hashtag step. It never fails the session: after
// the strict retry it falls back to the deterministic default set.
func (o *Orchestrator) generateHashtags(ctx context.Context, session *domain.GenerationSession) ([]string, error) {
	req := session.Request
	bindings := o.stepBindings(session, domain.StepHashtags)

	text, attempts, latency, err := o.completeStep(ctx, session, string(domain.StepHashtags), bindings)
	if err == nil {
		if tags, parseErr := parseHashtags(text, o.cfg.HashtagMin, o.cfg.HashtagMax); parseErr == nil {
			session.Record(domain.GenerationStepResult{Step: domain.StepHashtags, Text: text, Attempt: attempts, Latency: latency})
			return tags, nil
		}
	}
	if ctx.Err() != nil {
		return nil, domain.NewFailure(domain.StepHashtags, ctx.Err())
	}

	text, attempts, latency, err = o.completeStep(ctx, session, string(domain.StepHashtags)+"_strict", bindings)
	if err == nil {
		if tags, parseErr := parseHashtags(text, o.cfg.HashtagMin, o.cfg.HashtagMax); parseErr == nil {
			session.Record(domain.GenerationStepResult{Step: domain.StepHashtags, Text: text, Attempt: attempts, Latency: latency})
			return tags, nil
		}
	}
	if ctx.Err() != nil {
		return nil, domain.NewFailure(domain.StepHashtags, ctx.Err())
	}

	o.logger.Warn().Err(err).Msg("hashtag generation degraded to deterministic fallback")
	tags := fallbackHashtags(req.Topic, req.Platform, o.cfg.HashtagMin, o.cfg.HashtagMax)
	session.Record(domain.GenerationStepResult{Step: domain.StepHashtags, Text: "#" + joinTags(tags), Attempt: attempts, Latency: latency})
	return tags, nil
}

func joinTags(tags []string) string {
	out := ""
	for i, tag := range tags {
		if i > 0 {
			out += " #"
		}
		out += tag
	}
	return out
}

// assemble builds the complete plan from the session's step outputs. Callers
// never see a partial plan: any inconsistency is a failure instead.
func (o *Orchestrator) assemble(session *domain.GenerationSession, indep independentResults) (*domain.ContentPlan, error) {
	ts, err := parseTimestamps(session.Outputs[domain.StepTimestamps], o.maxDuration(session.Request))
	if err != nil {
		return nil, domain.NewFailure(domain.StepTimestamps, err)
	}
	if err := domain.ValidateHashtags(indep.hashtags, o.cfg.HashtagMin, o.cfg.HashtagMax); err != nil {
		return nil, domain.NewFailure(domain.StepHashtags, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err))
	}
	plan := &domain.ContentPlan{
		Hook:             session.Outputs[domain.StepHook],
		Storyline:        session.Outputs[domain.StepStoryline],
		Script:           session.Outputs[domain.StepScript],
		Hashtags:         indep.hashtags,
		MusicSuggestions: []domain.MusicSuggestion{},
		Timestamps:       ts,
	}
	if indep.tracks != nil {
		plan.MusicSuggestions = indep.tracks
	}
	if session.Request.IncludeTrends && indep.trend != nil {
		plan.TrendContext = indep.trend
	}
	session.Draft = plan
	return plan, nil
}
