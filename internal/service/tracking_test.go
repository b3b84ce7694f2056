package service

import (
	"context"
	"errors"
	"testing"

	"github.com/akarlov/privacymeter/internal/models"
)

type mockTrackingRepo struct {
	AddUserServiceFunc    func(ctx context.Context, userID, serviceID string, status models.ServiceStatus) (models.UserService, error)
	RemoveUserServiceFunc func(ctx context.Context, userID, serviceID string) (bool, error)
	ListUserServicesFunc  func(ctx context.Context, userID string) ([]models.UserService, error)
	UpsertPreferenceFunc  func(ctx context.Context, pref models.UserPreference) (models.UserPreference, error)
	ListPreferencesFunc   func(ctx context.Context, userID string) ([]models.UserPreference, error)
}

func (m *mockTrackingRepo) AddUserService(ctx context.Context, userID, serviceID string, status models.ServiceStatus) (models.UserService, error) {
	return m.AddUserServiceFunc(ctx, userID, serviceID, status)
}
func (m *mockTrackingRepo) RemoveUserService(ctx context.Context, userID, serviceID string) (bool, error) {
	return m.RemoveUserServiceFunc(ctx, userID, serviceID)
}
func (m *mockTrackingRepo) ListUserServices(ctx context.Context, userID string) ([]models.UserService, error) {
	return m.ListUserServicesFunc(ctx, userID)
}
func (m *mockTrackingRepo) UpsertPreference(ctx context.Context, pref models.UserPreference) (models.UserPreference, error) {
	return m.UpsertPreferenceFunc(ctx, pref)
}
func (m *mockTrackingRepo) ListPreferences(ctx context.Context, userID string) ([]models.UserPreference, error) {
	return m.ListPreferencesFunc(ctx, userID)
}

type mockCatalogRepo struct {
	ListServicesFunc  func(ctx context.Context) ([]models.Service, error)
	ServiceByIDFunc   func(ctx context.Context, id string) (*models.Service, error)
	ServicesByIDsFunc func(ctx context.Context, ids []string) ([]models.Service, error)
}

func (m *mockCatalogRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	return m.ListServicesFunc(ctx)
}
func (m *mockCatalogRepo) ServiceByID(ctx context.Context, id string) (*models.Service, error) {
	return m.ServiceByIDFunc(ctx, id)
}
func (m *mockCatalogRepo) ServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	return m.ServicesByIDsFunc(ctx, ids)
}

func TestTrack_UnknownService(t *testing.T) {
	catalog := &mockCatalogRepo{
		ServiceByIDFunc: func(context.Context, string) (*models.Service, error) {
			return nil, nil
		},
	}
	svc := NewTrackingService(&mockTrackingRepo{}, catalog)

	_, err := svc.Track(context.Background(), "u1", "missing", models.StatusActive)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("Track error = %v; want ErrServiceNotFound", err)
	}
}

func TestTrack_Success(t *testing.T) {
	catalog := &mockCatalogRepo{
		ServiceByIDFunc: func(context.Context, string) (*models.Service, error) {
			return &models.Service{ID: "s1", Name: "Instagram"}, nil
		},
	}
	repo := &mockTrackingRepo{
		AddUserServiceFunc: func(_ context.Context, userID, serviceID string, status models.ServiceStatus) (models.UserService, error) {
			return models.UserService{ID: "us1", UserID: userID, ServiceID: serviceID, Status: status}, nil
		},
	}
	svc := NewTrackingService(repo, catalog)

	us, err := svc.Track(context.Background(), "u1", "s1", models.StatusConsidering)
	if err != nil {
		t.Fatalf("Track returned error: %v", err)
	}
	if us.Status != models.StatusConsidering {
		t.Errorf("status = %q; want %q", us.Status, models.StatusConsidering)
	}
}

func TestUntrack_NotTracked(t *testing.T) {
	repo := &mockTrackingRepo{
		RemoveUserServiceFunc: func(context.Context, string, string) (bool, error) {
			return false, nil
		},
	}
	svc := NewTrackingService(repo, &mockCatalogRepo{})

	if err := svc.Untrack(context.Background(), "u1", "s1"); !errors.Is(err, ErrNotTracked) {
		t.Fatalf("Untrack error = %v; want ErrNotTracked", err)
	}
}

func TestTracked_JoinsServices(t *testing.T) {
	repo := &mockTrackingRepo{
		ListUserServicesFunc: func(context.Context, string) ([]models.UserService, error) {
			return []models.UserService{
				{ID: "us1", UserID: "u1", ServiceID: "s1", Status: models.StatusActive},
				{ID: "us2", UserID: "u1", ServiceID: "s2", Status: models.StatusInactive},
			}, nil
		},
	}
	catalog := &mockCatalogRepo{
		ServicesByIDsFunc: func(_ context.Context, ids []string) ([]models.Service, error) {
			if len(ids) != 2 {
				t.Errorf("ServicesByIDs received %d ids; want 2", len(ids))
			}
			return []models.Service{
				{ID: "s1", Name: "Instagram"},
				{ID: "s2", Name: "Spotify"},
			}, nil
		},
	}
	svc := NewTrackingService(repo, catalog)

	tracked, err := svc.Tracked(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Tracked returned error: %v", err)
	}
	if len(tracked) != 2 {
		t.Fatalf("len(tracked) = %d; want 2", len(tracked))
	}
	if tracked[0].Service.Name != "Instagram" || tracked[1].Service.Name != "Spotify" {
		t.Errorf("joined services = %q, %q", tracked[0].Service.Name, tracked[1].Service.Name)
	}
}

func TestTracked_EmptyList(t *testing.T) {
	repo := &mockTrackingRepo{
		ListUserServicesFunc: func(context.Context, string) ([]models.UserService, error) {
			return nil, nil
		},
	}
	svc := NewTrackingService(repo, &mockCatalogRepo{})

	tracked, err := svc.Tracked(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Tracked returned error: %v", err)
	}
	if len(tracked) != 0 {
		t.Errorf("len(tracked) = %d; want 0", len(tracked))
	}
}

func TestSetPreference_ImportanceOutOfRange(t *testing.T) {
	svc := NewTrackingService(&mockTrackingRepo{}, &mockCatalogRepo{})

	for _, level := range []int{0, 6, -1} {
		_, err := svc.SetPreference(context.Background(), models.UserPreference{
			UserID: "u1", Kind: models.KindPhotos, AvoidSharing: true, ImportanceLevel: level,
		})
		if err == nil {
			t.Errorf("expected error for importance level %d", level)
		}
	}
}

func TestSetPreference_Success(t *testing.T) {
	repo := &mockTrackingRepo{
		UpsertPreferenceFunc: func(_ context.Context, pref models.UserPreference) (models.UserPreference, error) {
			pref.ID = "p1"
			return pref, nil
		},
	}
	svc := NewTrackingService(repo, &mockCatalogRepo{})

	pref, err := svc.SetPreference(context.Background(), models.UserPreference{
		UserID: "u1", Kind: models.KindPreciseLocation, AvoidSharing: true, ImportanceLevel: 5,
	})
	if err != nil {
		t.Fatalf("SetPreference returned error: %v", err)
	}
	if pref.ID != "p1" {
		t.Errorf("pref ID = %q; want %q", pref.ID, "p1")
	}
}
