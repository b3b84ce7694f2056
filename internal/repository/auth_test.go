package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupAuthMock(t *testing.T) (*PostgresAuthRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresAuthRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestUserExists_True(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	email := "user1@example.com"
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.UserExists(context.Background(), email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Errorf("expected user to exist, got false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserExists_False(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	email := "user2@example.com"
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.UserExists(context.Background(), email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Errorf("expected user to not exist, got true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserExists_Error(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	email := "user3@example.com"
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs(email).
		WillReturnError(errors.New("query failed"))

	_, err := repo.UserExists(context.Background(), email)
	if err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	email := "newuser@example.com"
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`)).
		WithArgs(sqlmock.AnyArg(), email, "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	user, err := repo.CreateUser(context.Background(), email, "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Errorf("expected generated user id, got empty string")
	}
	if user.Email != email {
		t.Errorf("email = %q; want %q", user.Email, email)
	}
	if !user.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at = %v; want %v", user.CreatedAt, createdAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_Error(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`)).
		WithArgs(sqlmock.AnyArg(), "dup@example.com", "hash").
		WillReturnError(errors.New("insert failed"))

	_, err := repo.CreateUser(context.Background(), "dup@example.com", "hash")
	if err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserByEmail_Found(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	email := "user@example.com"
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`)).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", email, "hash", createdAt))

	user, err := repo.UserByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != "u1" || user.PasswordHash != "hash" {
		t.Errorf("user = %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`)).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	user, err := repo.UserByEmail(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserByID_Found(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, created_at FROM users WHERE id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", "user@example.com", "hash", createdAt))

	user, err := repo.UserByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Email != "user@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
