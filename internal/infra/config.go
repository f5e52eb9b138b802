package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration

	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	QualityThreshold    float64
	MaxRetries          int
	HashtagMin          int
	HashtagMax          int
	StepTimeout         time.Duration
	BackendBudget       int
	StrictOptionalSteps bool
	TemplateDir         string
	TrendServiceURL     string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		CacheTTL:    time.Second * time.Duration(getEnvInt("CACHE_TTL_SECONDS", 86400)),

		Provider:      getEnv("PROVIDER", "static"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		QualityThreshold:    getEnvFloat("QUALITY_THRESHOLD", 0.6),
		MaxRetries:          getEnvInt("MAX_RETRIES", 2),
		HashtagMin:          getEnvInt("HASHTAG_MIN", 5),
		HashtagMax:          getEnvInt("HASHTAG_MAX", 15),
		StepTimeout:         time.Second * time.Duration(getEnvInt("STEP_TIMEOUT_SECONDS", 30)),
		BackendBudget:       getEnvInt("BACKEND_BUDGET", 8),
		StrictOptionalSteps: getEnvBool("STRICT_OPTIONAL_STEPS", false),
		TemplateDir:         os.Getenv("TEMPLATE_DIR"),
		TrendServiceURL:     os.Getenv("TREND_SERVICE_URL"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when PROVIDER=openai")
		}
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when PROVIDER=gemini")
		}
	case "static":
	default:
		return nil, fmt.Errorf("unknown PROVIDER %q", cfg.Provider)
	}

	if cfg.HashtagMin < 1 || cfg.HashtagMax < cfg.HashtagMin {
		return nil, fmt.Errorf("invalid hashtag bounds [%d,%d]", cfg.HashtagMin, cfg.HashtagMax)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
