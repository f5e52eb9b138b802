package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"reelplan/internal/backend"
	"reelplan/internal/cache"
	"reelplan/internal/http/handlers"
	httpapi "reelplan/internal/http/httpapi"
	"reelplan/internal/infra"
	"reelplan/internal/music"
	"reelplan/internal/orchestrator"
	"reelplan/internal/scorer"
	"reelplan/internal/template"
	"reelplan/internal/trends"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	templates := template.NewManager()
	if cfg.TemplateDir != "" {
		if err := templates.LoadDir(cfg.TemplateDir); err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.TemplateDir).Msg("failed to load templates")
		}
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation backend")
	}
	client := backend.NewClient(gen, backend.ClientOptions{
		MaxRetries:  cfg.MaxRetries,
		CallTimeout: cfg.StepTimeout,
		Budget:      backend.NewBudget(int64(cfg.BackendBudget)),
		Logger:      logger,
	})

	store, cleanup, err := newCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize result cache")
	}
	defer cleanup()

	trendProvider, err := newTrendProvider(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build trend provider")
	}

	orch := orchestrator.New(
		client,
		templates,
		scorer.New(cfg.QualityThreshold),
		store,
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

	app := handlers.NewApp(orch, store, logger)
	router := httpapi.NewRouter(app, httpapi.Options{RateLimitPerMin: cfg.RateLimitPerMin})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("backend", gen.Name()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
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

// newTrendProvider prefers the external trend service when one is configured
// and falls back to the built-in static signal otherwise.
func newTrendProvider(cfg *infra.Config) (trends.Provider, error) {
	if cfg.TrendServiceURL != "" {
		return trends.NewHTTPProvider(cfg.TrendServiceURL, nil)
	}
	return trends.NewStaticProvider(), nil
}

// newCache picks the persistence tier: postgres when DATABASE_URL is set,
// redis when REDIS_URL is set, otherwise in-process memory.
func newCache(ctx context.Context, cfg *infra.Config, logger infra.Logger) (cache.ResultCache, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		runner := infra.NewSQLRunner(pool, logger)
		return cache.NewPostgres(runner), pool.Close, nil
	}
	if cfg.RedisURL != "" {
		store, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return cache.NewMemory(), func() {}, nil
}
