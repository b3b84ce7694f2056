package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/akarlov/privacymeter/internal/models"
)

// PostgresTrackingRepository implements user service tracking and
// preference operations against a PostgreSQL database.
type PostgresTrackingRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTrackingRepository creates a new PostgresTrackingRepository
// using the provided *sql.DB.
func NewPostgresTrackingRepository(db *sql.DB) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{DB: db}
}

// AddUserService tracks a service for the user. Adding an already
// tracked service updates its status instead of duplicating the row.
func (r *PostgresTrackingRepository) AddUserService(ctx context.Context, userID, serviceID string, status models.ServiceStatus) (models.UserService, error) {
	us := models.UserService{
		ID:        uuid.NewString(),
		UserID:    userID,
		ServiceID: serviceID,
		Status:    status,
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO user_services (id, user_id, service_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, service_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING id, added_at
	`, us.ID, us.UserID, us.ServiceID, string(us.Status)).Scan(&us.ID, &us.AddedAt)
	if err != nil {
		return models.UserService{}, fmt.Errorf("AddUserService: %w", err)
	}
	return us, nil
}

// RemoveUserService deletes the user's tracking row for a service. It
// reports whether a row was removed.
func (r *PostgresTrackingRepository) RemoveUserService(ctx context.Context, userID, serviceID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM user_services WHERE user_id = $1 AND service_id = $2
	`, userID, serviceID)
	if err != nil {
		return false, fmt.Errorf("RemoveUserService: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("RemoveUserService: %w", err)
	}
	return rows > 0, nil
}

// ListUserServices returns all tracked services for the user, any status.
func (r *PostgresTrackingRepository) ListUserServices(ctx context.Context, userID string) ([]models.UserService, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, service_id, status, added_at FROM user_services
		WHERE user_id = $1
		ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListUserServices: %w", err)
	}
	defer rows.Close()

	var services []models.UserService
	for rows.Next() {
		var us models.UserService
		if err := rows.Scan(&us.ID, &us.UserID, &us.ServiceID, &us.Status, &us.AddedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		services = append(services, us)
	}
	return services, rows.Err()
}

// UpsertPreference stores an avoid-sharing preference. One row per
// (user, kind): a repeated kind overwrites the previous preference,
// which keeps the engine's last-wins mapping a non-issue in practice.
func (r *PostgresTrackingRepository) UpsertPreference(ctx context.Context, pref models.UserPreference) (models.UserPreference, error) {
	pref.ID = uuid.NewString()
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO user_preferences (id, user_id, data_category, avoid_sharing, importance_level)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, data_category) DO UPDATE SET
			avoid_sharing = EXCLUDED.avoid_sharing,
			importance_level = EXCLUDED.importance_level
		RETURNING id
	`, pref.ID, pref.UserID, string(pref.Kind), pref.AvoidSharing, pref.ImportanceLevel).Scan(&pref.ID)
	if err != nil {
		return models.UserPreference{}, fmt.Errorf("UpsertPreference: %w", err)
	}
	return pref, nil
}

// ListPreferences returns all preferences for the user.
func (r *PostgresTrackingRepository) ListPreferences(ctx context.Context, userID string) ([]models.UserPreference, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, data_category, avoid_sharing, importance_level
		FROM user_preferences WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListPreferences: %w", err)
	}
	defer rows.Close()

	var prefs []models.UserPreference
	for rows.Next() {
		var p models.UserPreference
		if err := rows.Scan(&p.ID, &p.UserID, &p.Kind, &p.AvoidSharing, &p.ImportanceLevel); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}
