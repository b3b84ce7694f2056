package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akarlov/privacymeter/internal/middleware"
	"github.com/akarlov/privacymeter/internal/models"
	"github.com/akarlov/privacymeter/internal/service"
)

// TrackingService defines the interface for service tracking and
// preference operations required by the ServicesHandler.
type TrackingService interface {
	// Catalog lists all services offered for tracking.
	Catalog(ctx context.Context) ([]models.Service, error)
	// Track adds a service to the user's tracked set.
	Track(ctx context.Context, userID, serviceID string, status models.ServiceStatus) (models.UserService, error)
	// Untrack removes a service from the user's tracked set.
	Untrack(ctx context.Context, userID, serviceID string) error
	// Tracked lists the user's tracking entries with their services.
	Tracked(ctx context.Context, userID string) ([]service.TrackedService, error)
	// SetPreference stores an avoid-sharing preference.
	SetPreference(ctx context.Context, pref models.UserPreference) (models.UserPreference, error)
	// Preferences lists the user's preferences.
	Preferences(ctx context.Context, userID string) ([]models.UserPreference, error)
}

// Recalculator triggers a score recalculation after tracked services or
// preferences change.
type Recalculator interface {
	CalculateAndSave(ctx context.Context, userID string) (service.ScoreResult, error)
}

// ServicesHandler handles HTTP requests for the service catalog, the
// user's tracked services, and privacy preferences.
type ServicesHandler struct {
	TrackingService TrackingService
	// Recalculator refreshes the user's score after mutations; the
	// mutation itself succeeds even if recalculation fails.
	Recalculator Recalculator
}

// TrackRequest is the JSON payload for tracking a service.
type TrackRequest struct {
	// ServiceID is the catalog id of the service to track.
	ServiceID string `json:"service_id"`
	// Status is optional; it defaults to "active".
	Status models.ServiceStatus `json:"status"`
}

// PreferenceRequest is the JSON payload for setting a preference.
type PreferenceRequest struct {
	// Kind is the data category kind the preference applies to.
	Kind models.CategoryKind `json:"kind"`
	// AvoidSharing is whether the user wants to avoid sharing the kind.
	AvoidSharing bool `json:"avoid_sharing"`
	// ImportanceLevel weighs the preference on a 1-5 scale.
	ImportanceLevel int `json:"importance_level"`
}

// ListCatalog handles GET /services.
func (h *ServicesHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	services, err := h.TrackingService.Catalog(r.Context())
	if err != nil {
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	writeJSON(w, http.StatusOK, services)
}

// Track handles POST /users/me/services. A successful add triggers a
// score recalculation.
func (h *ServicesHandler) Track(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ServiceID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusConsidering:
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	tracked, err := h.TrackingService.Track(r.Context(), userID, req.ServiceID, status)
	if errors.Is(err, service.ErrServiceNotFound) {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to track service", http.StatusInternalServerError)
		return
	}

	_, _ = h.Recalculator.CalculateAndSave(r.Context(), userID)
	writeJSON(w, http.StatusCreated, tracked)
}

// ListTracked handles GET /users/me/services.
func (h *ServicesHandler) ListTracked(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	tracked, err := h.TrackingService.Tracked(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list tracked services", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tracked)
}

// Untrack handles DELETE /users/me/services/{serviceID}. A successful
// removal triggers a score recalculation.
func (h *ServicesHandler) Untrack(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	serviceID := chi.URLParam(r, "serviceID")

	err := h.TrackingService.Untrack(r.Context(), userID, serviceID)
	if errors.Is(err, service.ErrNotTracked) {
		http.Error(w, "service not tracked", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to untrack service", http.StatusInternalServerError)
		return
	}

	_, _ = h.Recalculator.CalculateAndSave(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}

// SetPreference handles POST /users/me/preferences. A successful change
// triggers a score recalculation.
func (h *ServicesHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req PreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Kind == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	pref, err := h.TrackingService.SetPreference(r.Context(), models.UserPreference{
		UserID:          userID,
		Kind:            req.Kind,
		AvoidSharing:    req.AvoidSharing,
		ImportanceLevel: req.ImportanceLevel,
	})
	if err != nil {
		http.Error(w, "invalid preference", http.StatusBadRequest)
		return
	}

	_, _ = h.Recalculator.CalculateAndSave(r.Context(), userID)
	writeJSON(w, http.StatusCreated, pref)
}

// ListPreferences handles GET /users/me/preferences.
func (h *ServicesHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	prefs, err := h.TrackingService.Preferences(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list preferences", http.StatusInternalServerError)
		return
	}
	if prefs == nil {
		prefs = []models.UserPreference{}
	}
	writeJSON(w, http.StatusOK, prefs)
}
