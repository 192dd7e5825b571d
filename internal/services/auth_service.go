// Package services – AuthService
//
// This file implements the session gate. Sign-in verifies the password with
// bcrypt and issues a short-lived HS256 token; authorization is an exact
// match of the authenticated email against the single configured
// administrator address, re-evaluated on every gated request (no cached
// "is admin" flag survives a request). Any failure during identity
// resolution denies access: the gate fails closed.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/config"
	"github.com/victorypower/church-backend/internal/repo"
)

// Identity is the authenticated caller as resolved from a token.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// AuthService signs users in and resolves identities from bearer tokens.
type AuthService struct {
	// DB is the GORM handle used for account lookups.
	DB *gorm.DB

	secret     []byte
	tokenTTL   time.Duration
	adminEmail string

	// now is a seam for token timestamps; defaults to time.Now.
	now func() time.Time
}

// NewAuthService constructs an AuthService from the auth configuration.
func NewAuthService(db *gorm.DB, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		DB:         db,
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		adminEmail: strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		now:        time.Now,
	}
}

// authClaims is the JWT payload issued by SignIn.
type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SignIn verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable (ErrInvalidCredentials). An identity that
// is not the configured administrator is rejected outright with
// ErrNotAuthorized: there is nothing a non-admin session could do.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !s.IsAdmin(u.Email) {
		return "", nil, ErrNotAuthorized
	}

	now := s.now().UTC()
	claims := authClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return tok, &Identity{UserID: u.ID, Email: u.Email}, nil
}

// ParseToken validates a bearer token and returns the identity it carries.
// Expired, malformed, or wrongly signed tokens all yield ErrNotAuthorized.
func (s *AuthService) ParseToken(tokenString string) (*Identity, error) {
	var claims authClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrNotAuthorized
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// IsAdmin reports whether email exactly matches the configured administrator
// address (case-insensitive).
func (s *AuthService) IsAdmin(email string) bool {
	return s.adminEmail != "" && strings.ToLower(strings.TrimSpace(email)) == s.adminEmail
}

// CurrentAdminIdentity resolves the identity from a token and returns it
// only when it is the administrator; every other outcome, including parse
// errors, is ErrNotAuthorized (fail closed).
func (s *AuthService) CurrentAdminIdentity(tokenString string) (*Identity, error) {
	id, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, ErrNotAuthorized
	}
	if !s.IsAdmin(id.Email) {
		return nil, ErrNotAuthorized
	}
	return id, nil
}

// EnsureAdminAccount seeds the admin account from configuration when it does
// not exist yet. Called once at startup; an existing account is left
// untouched.
func (s *AuthService) EnsureAdminAccount(ctx context.Context, password string) error {
	if s.adminEmail == "" || password == "" {
		return nil
	}
	if _, err := repo.GetUserByEmail(ctx, s.DB, s.adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = repo.CreateUser(ctx, s.DB, s.adminEmail, string(hash))
	return err
}
