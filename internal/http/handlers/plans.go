package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reelplan/internal/cache"
	"reelplan/internal/domain"
)

type planResponse struct {
	Fingerprint string              `json:"fingerprint"`
	Plan        *domain.ContentPlan `json:"plan"`
}

// CreatePlan runs the full generation pipeline for the posted request.
func (a *App) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req domain.ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.jsonError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	plan, err := a.Plans.Generate(r.Context(), req)
	if err != nil {
		status := failureStatus(err)
		if status >= http.StatusInternalServerError {
			a.Logger.Error().Err(err).Msg("plan generation failed")
		}
		a.jsonError(w, status, err.Error())
		return
	}

	a.json(w, http.StatusOK, planResponse{Fingerprint: req.Fingerprint(), Plan: plan})
}

// GetPlan serves a previously generated plan by its request fingerprint.
func (a *App) GetPlan(w http.ResponseWriter, r *http.Request) {
	fingerprint := chi.URLParam(r, "fingerprint")
	if fingerprint == "" {
		a.jsonError(w, http.StatusBadRequest, "fingerprint is required")
		return
	}

	plan, err := a.Cache.Get(r.Context(), fingerprint)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			a.jsonError(w, http.StatusNotFound, "no plan for fingerprint")
			return
		}
		a.Logger.Error().Err(err).Msg("plan lookup failed")
		a.jsonError(w, http.StatusInternalServerError, "plan lookup failed")
		return
	}

	a.json(w, http.StatusOK, planResponse{Fingerprint: fingerprint, Plan: plan})
}
