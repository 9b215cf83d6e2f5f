package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(now func() time.Time) *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour, WithClock(now), WithIssuer("skill-swap"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(time.Now)
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id, "ana@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.False(t, svc.IsRefreshToken(claims))
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := newTestService(time.Now)
	tok, err := svc.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(tok)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.True(t, svc.IsRefreshToken(claims))
}

func TestExpiredToken(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := issued
	svc := newTestService(func() time.Time { return now })

	tok, err := svc.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	now = issued.Add(16 * time.Minute)
	_, err = svc.ValidateAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSignedWithOtherSecretIsInvalid(t *testing.T) {
	other := NewHMACService("x", "y", time.Minute, time.Minute)
	tok, err := other.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	_, err = newTestService(time.Now).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = newTestService(time.Now).ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateRejectsNilUser(t *testing.T) {
	_, err := newTestService(time.Now).GenerateAccessToken(uuid.Nil, "")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
