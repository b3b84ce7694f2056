// Package token issues and verifies the HS256 access tokens used to
// authenticate API requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akarlov/privacymeter/internal/models"
)

// ErrInvalidToken is returned when a token fails signature or claim
// validation, including expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the identity encoded in an access token.
type Claims struct {
	// UserID is the authenticated user's id.
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Manager signs and verifies access tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a Manager. secret must be non-empty; ttl is the
// lifetime of issued tokens.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token for the user with the configured ttl.
func (m *Manager) Issue(user models.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns its claims. Expired or otherwise
// invalid tokens return ErrInvalidToken.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
