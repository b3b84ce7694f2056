package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akarlov/privacymeter/internal/models"
)

// PostgresPrivacyRepository implements the data-access operations the
// scoring engine depends on, plus snapshot retrieval for the history API.
type PostgresPrivacyRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresPrivacyRepository creates a new PostgresPrivacyRepository
// using the provided *sql.DB.
func NewPostgresPrivacyRepository(db *sql.DB) *PostgresPrivacyRepository {
	return &PostgresPrivacyRepository{DB: db}
}

// ActiveUserServices returns the user's tracked services with status
// "active".
func (r *PostgresPrivacyRepository) ActiveUserServices(ctx context.Context, userID string) ([]models.UserService, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, service_id, status, added_at FROM user_services
		WHERE user_id = $1 AND status = $2
	`, userID, string(models.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("ActiveUserServices: %w", err)
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

// UserPreferences returns all preferences for the user.
func (r *PostgresPrivacyRepository) UserPreferences(ctx context.Context, userID string) ([]models.UserPreference, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, data_category, avoid_sharing, importance_level
		FROM user_preferences WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("UserPreferences: %w", err)
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

// DataCategories returns all data category records for a service.
func (r *PostgresPrivacyRepository) DataCategories(ctx context.Context, serviceID string) ([]models.DataCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, service_id, kind, is_collected, is_required,
		       is_shared_with_third_parties, opt_out_available, can_be_deleted, risk_score
		FROM data_categories WHERE service_id = $1
	`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("DataCategories: %w", err)
	}
	defer rows.Close()

	var categories []models.DataCategory
	for rows.Next() {
		var c models.DataCategory
		var risk sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.ServiceID, &c.Kind, &c.IsCollected, &c.IsRequired,
			&c.IsSharedWithThirdParties, &c.OptOutAvailable, &c.CanBeDeleted, &risk); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if risk.Valid {
			c.RiskScore = &risk.Float64
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CurrentPolicy returns the current policy of the given type for a
// service, or nil when none exists.
func (r *PostgresPrivacyRepository) CurrentPolicy(ctx context.Context, serviceID string, policyType models.PolicyType) (*models.Policy, error) {
	var p models.Policy
	var sharing, control sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, service_id, policy_type, data_sharing_score, user_control_score, is_current
		FROM policies WHERE service_id = $1 AND policy_type = $2 AND is_current = true
	`, serviceID, string(policyType)).Scan(&p.ID, &p.ServiceID, &p.Type, &sharing, &control, &p.IsCurrent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("CurrentPolicy: %w", err)
	}
	if sharing.Valid {
		p.DataSharingScore = &sharing.Float64
	}
	if control.Valid {
		p.UserControlScore = &control.Float64
	}
	return &p, nil
}

// RecentScores returns score snapshots for the user calculated at or
// after since, most recent first.
func (r *PostgresPrivacyRepository) RecentScores(ctx context.Context, userID string, since time.Time) ([]models.Score, error) {
	rows, err := r.DB.QueryContext(ctx, scoreSelect+`
		WHERE user_id = $1 AND calculated_at >= $2
		ORDER BY calculated_at DESC
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("RecentScores: %w", err)
	}
	defer rows.Close()

	var scores []models.Score
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// LatestScore returns the most recent snapshot for the user, or nil when
// none exist.
func (r *PostgresPrivacyRepository) LatestScore(ctx context.Context, userID string) (*models.Score, error) {
	row := r.DB.QueryRowContext(ctx, scoreSelect+`
		WHERE user_id = $1
		ORDER BY calculated_at DESC
		LIMIT 1
	`, userID)

	s, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LatestScore: %w", err)
	}
	return &s, nil
}

// SaveScore appends the score as a new snapshot and returns the stored
// record. Existing snapshots are never updated.
func (r *PostgresPrivacyRepository) SaveScore(ctx context.Context, userID string, score models.Score) (models.Score, error) {
	score.ID = uuid.NewString()
	score.UserID = userID
	if score.CalculatedAt.IsZero() {
		score.CalculatedAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO privacy_scores
			(id, user_id, overall_score, data_collection_score, data_sharing_score,
			 user_control_score, preference_match_score, improvement_potential,
			 score_trend, factors_analyzed, recommendations_count, calculation_note, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, score.ID, score.UserID, score.Overall, score.DataCollection, score.DataSharing,
		score.UserControl, score.PreferenceMatch, score.ImprovementPotential,
		string(score.TrendLabel), score.FactorsAnalyzed, score.RecommendationsCount,
		score.Note, score.CalculatedAt)
	if err != nil {
		return models.Score{}, fmt.Errorf("SaveScore: %w", err)
	}
	return score, nil
}

const scoreSelect = `
	SELECT id, user_id, overall_score, data_collection_score, data_sharing_score,
	       user_control_score, preference_match_score, improvement_potential,
	       score_trend, factors_analyzed, recommendations_count, calculation_note, calculated_at
	FROM privacy_scores`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner) (models.Score, error) {
	var s models.Score
	var trend string
	err := row.Scan(&s.ID, &s.UserID, &s.Overall, &s.DataCollection, &s.DataSharing,
		&s.UserControl, &s.PreferenceMatch, &s.ImprovementPotential,
		&trend, &s.FactorsAnalyzed, &s.RecommendationsCount, &s.Note, &s.CalculatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Score{}, err
		}
		return models.Score{}, fmt.Errorf("scan score: %w", err)
	}
	s.ServicesCount = s.FactorsAnalyzed
	s.TrendLabel = models.Trend(trend)
	return s, nil
}
