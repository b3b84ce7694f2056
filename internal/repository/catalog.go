package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/akarlov/privacymeter/internal/models"
)

// PostgresCatalogRepository implements read access to the service
// catalog against a PostgreSQL database.
type PostgresCatalogRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository
// using the provided *sql.DB.
func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

// ListServices returns all services offered for tracking.
func (r *PostgresCatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, domain, category, is_active FROM services
		WHERE is_active = true
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("ListServices: %w", err)
	}
	defer rows.Close()
	return collectServices(rows)
}

// ServiceByID fetches a single service. It returns nil without an error
// when no such service exists.
func (r *PostgresCatalogRepository) ServiceByID(ctx context.Context, id string) (*models.Service, error) {
	var s models.Service
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, domain, category, is_active FROM services WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Domain, &s.Category, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ServiceByID: %w", err)
	}
	return &s, nil
}

// ServicesByIDs fetches the services with the given ids in one query.
func (r *PostgresCatalogRepository) ServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, domain, category, is_active FROM services WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("ServicesByIDs: %w", err)
	}
	defer rows.Close()
	return collectServices(rows)
}

func collectServices(rows *sql.Rows) ([]models.Service, error) {
	var services []models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Domain, &s.Category, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
