// Package http provides the HTTP handlers and routing for the privacy
// score API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/akarlov/privacymeter/internal/models"
	"github.com/akarlov/privacymeter/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new account and returns the user with an
	// access token.
	Register(ctx context.Context, email, password string) (models.User, string, error)
	// Login verifies credentials and returns the user with an access
	// token.
	Login(ctx context.Context, email, password string) (models.User, string, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// CredentialsRequest represents the JSON payload for registration and
// login.
type CredentialsRequest struct {
	// Email is the user's login email.
	Email string `json:"email"`
	// Password is the user's plain-text password.
	Password string `json:"password"`
}

// TokenResponse is returned on successful registration or login.
type TokenResponse struct {
	// AccessToken is the signed bearer token.
	AccessToken string `json:"access_token"`
	// TokenType is always "bearer".
	TokenType string `json:"token_type"`
	// UserID is the authenticated user's id.
	UserID string `json:"user_id"`
	// Email is the authenticated user's email.
	Email string `json:"email"`
}

// Register handles user registration requests. It expects a JSON body
// with non-empty "email" and "password" fields and responds with a
// bearer token. A duplicate email yields 409.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validCredentials(req) {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, accessToken, err := h.AuthService.Register(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
	})
}

// Login handles login requests. Invalid credentials yield 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validCredentials(req) {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, accessToken, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		http.Error(w, "incorrect email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
	})
}

func validCredentials(req CredentialsRequest) bool {
	return strings.TrimSpace(req.Email) != "" && req.Password != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
