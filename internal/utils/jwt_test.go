package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
	"github.com/fathima-sithara/poseidon-service/internal/models"
)

func newTestManager(ttl time.Duration) *JWTManager {
	return NewJWTManager("super-secret", "poseidon-service", "poseidon-clients", ttl)
}

func TestGenerateAndVerify_Success(t *testing.T) {
	t.Parallel()
	m := newTestManager(time.Hour)

	tok, exp, err := m.Generate("user-123", models.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "poseidon-service", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	m := newTestManager(time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := m.Generate("u1", models.RoleUser)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	tok, _, err := newTestManager(time.Hour).Generate("u2", models.RoleUser)
	require.NoError(t, err)

	other := NewJWTManager("wrong-secret", "poseidon-service", "poseidon-clients", time.Hour)
	_, err = other.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()
	tok, _, err := newTestManager(time.Hour).Generate("u3", models.RoleUser)
	require.NoError(t, err)

	_, err = NewJWTManager("super-secret", "someone-else", "poseidon-clients", time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTManager("super-secret", "poseidon-service", "other-clients", time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	_, err := newTestManager(time.Hour).Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestManager(time.Hour).Verify("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()
	claims := jwt.MapClaims{
		"user_id": "u4",
		"role":    "Admin",
		"iss":     "poseidon-service",
		"aud":     "poseidon-clients",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestManager(time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	t.Parallel()
	claims := jwt.MapClaims{
		"user_id": "u5",
		"role":    "Root",
		"iss":     "poseidon-service",
		"aud":     "poseidon-clients",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = newTestManager(time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}
