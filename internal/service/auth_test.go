package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akarlov/privacymeter/internal/models"
	"github.com/akarlov/privacymeter/internal/token"
)

type mockAuthRepo struct {
	UserExistsFunc  func(ctx context.Context, email string) (bool, error)
	CreateUserFunc  func(ctx context.Context, email, passwordHash string) (models.User, error)
	UserByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockAuthRepo) UserExists(ctx context.Context, email string) (bool, error) {
	return m.UserExistsFunc(ctx, email)
}
func (m *mockAuthRepo) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	return m.CreateUserFunc(ctx, email, passwordHash)
}
func (m *mockAuthRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.UserByEmailFunc(ctx, email)
}

func testTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}

func TestRegister_Success(t *testing.T) {
	var storedHash string
	repo := &mockAuthRepo{
		UserExistsFunc: func(_ context.Context, email string) (bool, error) {
			if email != "carol@example.com" {
				t.Errorf("UserExists received email = %q", email)
			}
			return false, nil
		},
		CreateUserFunc: func(_ context.Context, email, passwordHash string) (models.User, error) {
			storedHash = passwordHash
			return models.User{ID: "u1", Email: email, PasswordHash: passwordHash}, nil
		},
	}
	svc := NewAuthService(repo, testTokens(t))

	user, accessToken, err := svc.Register(context.Background(), "carol@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user ID = %q; want %q", user.ID, "u1")
	}
	if accessToken == "" {
		t.Error("expected a non-empty access token")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("hunter2")); err != nil {
		t.Errorf("stored hash does not verify against the password: %v", err)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := &mockAuthRepo{
		UserExistsFunc: func(context.Context, string) (bool, error) {
			return true, nil
		},
	}
	svc := NewAuthService(repo, testTokens(t))

	_, _, err := svc.Register(context.Background(), "bob@example.com", "pw")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register error = %v; want ErrEmailTaken", err)
	}
}

func TestRegister_RepoError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockAuthRepo{
		UserExistsFunc: func(context.Context, string) (bool, error) {
			return false, wantErr
		},
	}
	svc := NewAuthService(repo, testTokens(t))

	_, _, err := svc.Register(context.Background(), "bob@example.com", "pw")
	if !errors.Is(err, wantErr) {
		t.Fatalf("Register error = %v; want wrapped %v", err, wantErr)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repo := &mockAuthRepo{
		UserByEmailFunc: func(context.Context, string) (*models.User, error) {
			return &models.User{ID: "u1", Email: "alice@example.com", PasswordHash: string(hash)}, nil
		},
	}
	tokens := testTokens(t)
	svc := NewAuthService(repo, tokens)

	user, accessToken, err := svc.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user ID = %q; want %q", user.ID, "u1")
	}
	claims, err := tokens.Parse(accessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("token UserID = %q; want %q", claims.UserID, "u1")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	repo := &mockAuthRepo{
		UserByEmailFunc: func(context.Context, string) (*models.User, error) {
			return &models.User{ID: "u1", PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(repo, testTokens(t))

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login error = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{
		UserByEmailFunc: func(context.Context, string) (*models.User, error) {
			return nil, nil
		},
	}
	svc := NewAuthService(repo, testTokens(t))

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login error = %v; want ErrInvalidCredentials", err)
	}
}
