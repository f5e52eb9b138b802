// Command plangen generates one content plan from the command line and
// prints it as JSON, for quick iteration without running the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"reelplan/internal/backend"
	"reelplan/internal/cache"
	"reelplan/internal/domain"
	"reelplan/internal/infra"
	"reelplan/internal/music"
	"reelplan/internal/orchestrator"
	"reelplan/internal/scorer"
	"reelplan/internal/template"
	"reelplan/internal/trends"
)

func main() {
	topic := flag.String("topic", "", "content topic (required)")
	platform := flag.String("platform", "tiktok", "target platform: instagram, youtube_shorts, tiktok")
	tone := flag.String("tone", "", "desired tone, e.g. casual, energetic")
	audience := flag.String("audience", "", "target audience description")
	maxDuration := flag.Int("max-duration", 0, "maximum video duration in seconds (0 uses the platform default)")
	withMusic := flag.Bool("music", false, "include music suggestions")
	withTrends := flag.Bool("trends", false, "include trend context")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fatal(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	templates := template.NewManager()
	if cfg.TemplateDir != "" {
		if err := templates.LoadDir(cfg.TemplateDir); err != nil {
			fatal(err)
		}
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		fatal(err)
	}
	client := backend.NewClient(gen, backend.ClientOptions{
		MaxRetries:  cfg.MaxRetries,
		CallTimeout: cfg.StepTimeout,
		Budget:      backend.NewBudget(int64(cfg.BackendBudget)),
		Logger:      logger,
	})

	trendProvider, err := newTrendProvider(cfg)
	if err != nil {
		fatal(err)
	}

	orch := orchestrator.New(
		client,
		templates,
		scorer.New(cfg.QualityThreshold),
		cache.NewMemory(),
		trendProvider,
		music.NewCatalogProvider(),
		orchestrator.Config{
			MaxRetries:          cfg.MaxRetries,
			HashtagMin:          cfg.HashtagMin,
			HashtagMax:          cfg.HashtagMax,
			StrictOptionalSteps: cfg.StrictOptionalSteps,
		},
		logger,
	)

	req := domain.ContentRequest{
		Topic:              *topic,
		Platform:           domain.Platform(*platform),
		Tone:               *tone,
		TargetAudience:     *audience,
		MaxDurationSeconds: *maxDuration,
		IncludeMusic:       *withMusic,
		IncludeTrends:      *withTrends,
	}

	plan, err := orch.Generate(ctx, req)
	if err != nil {
		fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		fatal(err)
	}
}

func newGenerator(cfg *infra.Config) (backend.Generator, error) {
	switch cfg.Provider {
	case "openai":
		return backend.NewOpenAIGenerator(backend.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
	case "gemini":
		return backend.NewGeminiGenerator(backend.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	default:
		return backend.NewStaticGenerator(), nil
	}
}

func newTrendProvider(cfg *infra.Config) (trends.Provider, error) {
	if cfg.TrendServiceURL != "" {
		return trends.NewHTTPProvider(cfg.TrendServiceURL, nil)
	}
	return trends.NewStaticProvider(), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "plangen:", err)
	os.Exit(1)
}
