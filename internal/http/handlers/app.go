package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"reelplan/internal/cache"
	"reelplan/internal/domain"
)

// PlanGenerator is the orchestration surface the HTTP layer depends on.
type PlanGenerator interface {
	Generate(ctx context.Context, req domain.ContentRequest) (*domain.ContentPlan, error)
}

type App struct {
	Plans  PlanGenerator
	Cache  cache.ResultCache
	Logger zerolog.Logger
}

func NewApp(plans PlanGenerator, store cache.ResultCache, logger zerolog.Logger) *App {
	return &App{Plans: plans, Cache: store, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) jsonError(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// failureStatus maps a pipeline failure to the HTTP status the client sees.
func failureStatus(err error) int {
	var report *domain.FailureReport
	if !errors.As(err, &report) {
		return http.StatusBadGateway
	}
	switch report.Kind {
	case "invalid_request":
		return http.StatusBadRequest
	case "rate_limited":
		return http.StatusTooManyRequests
	case "timeout", "canceled":
		return http.StatusGatewayTimeout
	case "template":
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
