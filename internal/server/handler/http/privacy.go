package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/akarlov/privacymeter/internal/middleware"
	"github.com/akarlov/privacymeter/internal/models"
	"github.com/akarlov/privacymeter/internal/service"
)

// PrivacyService defines the interface for privacy score operations
// required by the PrivacyHandler.
type PrivacyService interface {
	// CalculateAndSave computes and persists a fresh score snapshot.
	CalculateAndSave(ctx context.Context, userID string) (service.ScoreResult, error)
	// Latest returns the most recent snapshot with its report, or nil.
	Latest(ctx context.Context, userID string) (*service.ScoreResult, error)
	// History returns snapshots from the last days days, newest first.
	History(ctx context.Context, userID string, days int) ([]models.Score, error)
}

// PrivacyHandler handles HTTP requests for privacy score calculation,
// retrieval, and history.
type PrivacyHandler struct {
	PrivacyService PrivacyService
}

// Calculate handles POST /privacy/score/calculate. It computes a fresh
// score for the authenticated user and returns it with insights.
func (h *PrivacyHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.PrivacyService.CalculateAndSave(r.Context(), userID)
	if err != nil {
		http.Error(w, "score calculation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Latest handles GET /privacy/score. 404 when the user has no snapshots
// yet.
func (h *PrivacyHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.PrivacyService.Latest(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to fetch score", http.StatusInternalServerError)
		return
	}
	if result == nil {
		http.Error(w, "no score calculated yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// History handles GET /privacy/score/history?days=N (default 30,
// max 365).
func (h *PrivacyHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 365 {
			http.Error(w, "days must be between 1 and 365", http.StatusBadRequest)
			return
		}
		days = v
	}

	scores, err := h.PrivacyService.History(r.Context(), userID, days)
	if err != nil {
		http.Error(w, "failed to fetch history", http.StatusInternalServerError)
		return
	}
	if scores == nil {
		scores = []models.Score{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":   days,
		"scores": scores,
	})
}
