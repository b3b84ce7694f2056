package token

import (
	"errors"
	"testing"
	"time"

	"github.com/akarlov/privacymeter/internal/models"
)

func TestNewManager_EmptySecret(t *testing.T) {
	if _, err := NewManager("", time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	m, err := NewManager("test-secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	user := models.User{ID: "u1", Email: "alice@example.com"}
	signed, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %q; want %q", claims.UserID, "u1")
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("Subject = %q; want %q", claims.Subject, "alice@example.com")
	}
}

func TestParse_ExpiredToken(t *testing.T) {
	m, err := NewManager("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	signed, err := m.Issue(models.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse error = %v; want ErrInvalidToken", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	issuer, _ := NewManager("secret-a", time.Minute)
	verifier, _ := NewManager("secret-b", time.Minute)

	signed, err := issuer.Issue(models.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse error = %v; want ErrInvalidToken", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	m, _ := NewManager("test-secret", time.Minute)
	if _, err := m.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse error = %v; want ErrInvalidToken", err)
	}
}
