package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/model"
)

func TestTokenLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.student(t, "Asha", "CS01", "A")
	u, err := f.users.GetByID(ctx, student.UserID)
	require.NoError(t, err)

	token, err := f.auth.GenerateToken(ctx, u)
	require.NoError(t, err)

	claims, err := f.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.Equal(t, "CS01", claims.RollNumber)
	assert.Equal(t, student, claims.Actor())

	require.NoError(t, f.auth.ValidateSession(ctx, claims))
	require.NoError(t, f.auth.Revoke(ctx, claims))
	assert.ErrorIs(t, f.auth.ValidateSession(ctx, claims), ErrTokenRevoked)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	u, err := f.users.GetByID(ctx, prof.UserID)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour, BcryptCost: 4}, newMemTokens())
	token, err := other.GenerateToken(ctx, u)
	require.NoError(t, err)

	_, err = f.auth.ValidateToken(token)
	assert.Error(t, err)
	_, err = f.auth.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	f := newFixture(t)
	hash, err := f.auth.HashPassword("secret123")
	require.NoError(t, err)

	assert.NoError(t, f.auth.CheckPassword(hash, "secret123"))
	assert.ErrorIs(t, f.auth.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}
