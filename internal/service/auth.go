// Package service provides the business-logic services for
// authentication, service tracking, and privacy scoring, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/akarlov/privacymeter/internal/models"
	"github.com/akarlov/privacymeter/internal/token"
)

// ErrEmailTaken is returned when registering an already used email.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned on a failed login.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given email exists.
	UserExists(ctx context.Context, email string) (bool, error)
	// CreateUser stores a new user and returns the stored record.
	CreateUser(ctx context.Context, email, passwordHash string) (models.User, error)
	// UserByEmail returns the user with the given email, or nil when
	// no such user exists.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService implements registration and login, hashing passwords with
// bcrypt and issuing access tokens on success.
type AuthService struct {
	repo   AuthRepository
	tokens *token.Manager
}

// NewAuthService constructs an AuthService using the provided repository
// and token manager.
func NewAuthService(repo AuthRepository, tokens *token.Manager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Register creates a new account and returns the user with a fresh
// access token. Returns ErrEmailTaken if the email is already in use.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, string, error) {
	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, string(hash))
	if err != nil {
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, accessToken, nil
}

// Login verifies credentials and returns the user with a fresh access
// token. Returns ErrInvalidCredentials for an unknown email or a wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(*user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return *user, accessToken, nil
}
