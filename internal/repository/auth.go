// Package repository provides PostgreSQL persistence implementations for
// the authentication, tracking, catalog, and privacy-score services.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akarlov/privacymeter/internal/models"
)

// PostgresAuthRepository implements user account operations using a
// PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UserExists checks whether a user with the specified email exists.
func (r *PostgresAuthRepository) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user with the given email and password hash
// and returns the stored record.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		user.ID, user.Email, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("CreateUser: %w", err)
	}
	return user, nil
}

// UserByEmail fetches a user by email. It returns nil without an error
// when no such user exists.
func (r *PostgresAuthRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("UserByEmail: %w", err)
	}
	return &user, nil
}

// UserByID fetches a user by id. It returns nil without an error when no
// such user exists.
func (r *PostgresAuthRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("UserByID: %w", err)
	}
	return &user, nil
}
