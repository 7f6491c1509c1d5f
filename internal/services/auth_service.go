package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/sitetrack-api/internal/config"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// AuthService signs operators in. There are no passwords; signing in only
// establishes the identity recorded on audit entries.
type AuthService struct {
	audit *AuditService
	cfg   *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(audit *AuditService, cfg *config.Config) *AuthService {
	return &AuthService{audit: audit, cfg: cfg}
}

// LoginResult represents the result of a sign in
type LoginResult struct {
	Token     string    `json:"token"`
	Actor     string    `json:"actor"`
	ExpiresAt time.Time `json:"expires_at"`
}

type sessionClaims struct {
	Actor string `json:"actor"`
	jwt.RegisteredClaims
}

// Actor renders the identity string stored in audit rows
func Actor(name, email string) string {
	return fmt.Sprintf("%s <%s>", strings.TrimSpace(name), strings.TrimSpace(email))
}

// Login builds the actor identity, audits the sign in and returns a session token
func (s *AuthService) Login(ctx context.Context, name, email string) (*LoginResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	actor := Actor(name, email)

	token, expiresAt, err := s.generateJWT(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	if _, err := s.audit.Log(ctx, models.ActionLogin, "user", "", actor, "signed in"); err != nil {
		return nil, err
	}

	logger.Info("Operator signed in", "actor", actor)
	return &LoginResult{Token: token, Actor: actor, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) generateJWT(actor string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour)

	claims := sessionClaims{
		Actor: actor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
