package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarlov/privacymeter/internal/models"
)

// ErrServiceNotFound is returned when tracking an unknown service.
var ErrServiceNotFound = errors.New("service not found")

// ErrNotTracked is returned when removing a service the user does not
// track.
var ErrNotTracked = errors.New("service not tracked")

// TrackingRepository defines the persistence operations required by the
// tracking service.
type TrackingRepository interface {
	// AddUserService tracks a service for the user, updating the
	// status when the service is already tracked.
	AddUserService(ctx context.Context, userID, serviceID string, status models.ServiceStatus) (models.UserService, error)
	// RemoveUserService deletes the tracking row and reports whether
	// one existed.
	RemoveUserService(ctx context.Context, userID, serviceID string) (bool, error)
	// ListUserServices returns all tracked services for the user.
	ListUserServices(ctx context.Context, userID string) ([]models.UserService, error)
	// UpsertPreference stores an avoid-sharing preference, one row per
	// (user, kind).
	UpsertPreference(ctx context.Context, pref models.UserPreference) (models.UserPreference, error)
	// ListPreferences returns all preferences for the user.
	ListPreferences(ctx context.Context, userID string) ([]models.UserPreference, error)
}

// CatalogRepository defines read access to the service catalog.
type CatalogRepository interface {
	// ListServices returns all services offered for tracking.
	ListServices(ctx context.Context) ([]models.Service, error)
	// ServiceByID returns a service, or nil when it does not exist.
	ServiceByID(ctx context.Context, id string) (*models.Service, error)
	// ServicesByIDs returns the services with the given ids.
	ServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error)
}

// TrackedService is a user's tracking entry joined with the service it
// refers to.
type TrackedService struct {
	models.UserService
	// Service is the tracked service's catalog entry.
	Service models.Service `json:"service"`
}

// TrackingService implements user service tracking and preference
// management.
type TrackingService struct {
	repo    TrackingRepository
	catalog CatalogRepository
}

// NewTrackingService constructs a TrackingService.
func NewTrackingService(repo TrackingRepository, catalog CatalogRepository) *TrackingService {
	return &TrackingService{repo: repo, catalog: catalog}
}

// Catalog returns all services offered for tracking.
func (s *TrackingService) Catalog(ctx context.Context) ([]models.Service, error) {
	return s.catalog.ListServices(ctx)
}

// Track adds a service to the user's tracked set with the given status.
// Returns ErrServiceNotFound for an unknown service id.
func (s *TrackingService) Track(ctx context.Context, userID, serviceID string, status models.ServiceStatus) (models.UserService, error) {
	svc, err := s.catalog.ServiceByID(ctx, serviceID)
	if err != nil {
		return models.UserService{}, fmt.Errorf("lookup service: %w", err)
	}
	if svc == nil {
		return models.UserService{}, ErrServiceNotFound
	}
	return s.repo.AddUserService(ctx, userID, serviceID, status)
}

// Untrack removes a service from the user's tracked set. Returns
// ErrNotTracked when there is nothing to remove.
func (s *TrackingService) Untrack(ctx context.Context, userID, serviceID string) error {
	removed, err := s.repo.RemoveUserService(ctx, userID, serviceID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotTracked
	}
	return nil
}

// Tracked returns the user's tracking entries joined with the services
// they refer to.
func (s *TrackingService) Tracked(ctx context.Context, userID string) ([]TrackedService, error) {
	entries, err := s.repo.ListUserServices(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []TrackedService{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ServiceID)
	}
	services, err := s.catalog.ServicesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve services: %w", err)
	}
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	tracked := make([]TrackedService, 0, len(entries))
	for _, e := range entries {
		tracked = append(tracked, TrackedService{UserService: e, Service: byID[e.ServiceID]})
	}
	return tracked, nil
}

// SetPreference stores an avoid-sharing preference for the user.
// Importance levels outside 1-5 are rejected.
func (s *TrackingService) SetPreference(ctx context.Context, pref models.UserPreference) (models.UserPreference, error) {
	if pref.ImportanceLevel < 1 || pref.ImportanceLevel > 5 {
		return models.UserPreference{}, fmt.Errorf("importance level %d out of range 1-5", pref.ImportanceLevel)
	}
	return s.repo.UpsertPreference(ctx, pref)
}

// Preferences returns all preferences for the user.
func (s *TrackingService) Preferences(ctx context.Context, userID string) ([]models.UserPreference, error) {
	return s.repo.ListPreferences(ctx, userID)
}
