package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// ErrTokenRevoked is returned for a well-formed token whose session was ended.
var ErrTokenRevoked = errors.New("token has been revoked")

// Claims extends JWT standard claims with the caller's identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID     uuid.UUID  `json:"user_id"`
	Role       model.Role `json:"role"`
	RollNumber string     `json:"roll_number,omitempty"` // Student only
}

// Actor returns the identity services act on behalf of.
func (c *Claims) Actor() *model.Actor {
	return &model.Actor{UserID: c.UserID, Role: c.Role, RollNumber: c.RollNumber}
}

// TokenRegistry tracks which issued token ids are still live.
type TokenRegistry interface {
	Register(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, jti string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, jti string) error
}

// AuthService handles password hashing, JWT issuance and token sessions.
type AuthService struct {
	cfg    *config.Config
	tokens TokenRegistry
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, tokens TokenRegistry) *AuthService {
	return &AuthService{cfg: cfg, tokens: tokens}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken creates a JWT for u and registers its id so it can be revoked.
// Several tokens per user may be live at once.
func (s *AuthService) GenerateToken(ctx context.Context, u *model.User) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID:     u.ID,
		Role:       u.Role,
		RollNumber: u.RollNumber(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.tokens.Register(ctx, u.ID, jti, s.cfg.JWTExpiry); err != nil {
		return "", fmt.Errorf("register token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if !claims.Role.Valid() || claims.UserID == uuid.Nil {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession checks that the token's id is still registered.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	ok, err := s.tokens.Exists(ctx, claims.UserID, claims.ID)
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return ErrTokenRevoked
	}
	return nil
}

// Revoke ends the session bound to claims.
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	return s.tokens.Revoke(ctx, claims.UserID, claims.ID)
}
