package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string, ttl time.Duration) *TokenService {
	return NewTokenService(&config.Config{SecretKey: secret, TokenTTL: ttl})
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := newService("super-secret", time.Hour)
	user := &models.User{ID: "user-123", IsAdmin: true}

	tok, err := s.Issue(user)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.True(t, claims.IsAdmin)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	s := newService("secret", 2*time.Hour)
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }

	tok, err := s.Issue(&models.User{ID: "u1"})
	require.NoError(t, err)

	s.now = func() time.Time { return start.Add(time.Hour) }
	_, err = s.Verify(tok)
	require.NoError(t, err, "token must be valid inside the TTL window")

	s.now = func() time.Time { return start.Add(2*time.Hour + time.Second) }
	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newService("right-secret", time.Hour).Issue(&models.User{ID: "u2"})
	require.NoError(t, err)

	_, err = newService("wrong-secret", time.Hour).Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	s := newService("k", time.Hour)
	tok, err := s.Issue(&models.User{ID: "u3"})
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		IsAdmin: true,
	}).SignedString([]byte("other"))
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = s.Verify(spliced)
	require.ErrorIs(t, err, common.ErrTokenSignature)
}

func TestVerify_UnexpectedAlgorithm(t *testing.T) {
	t.Parallel()

	s := newService("k", time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u4",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newService("k", time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b"} {
		_, err := s.Verify(tok)
		require.ErrorIs(t, err, common.ErrTokenMalformed, "token %q", tok)
	}
}

func TestVerify_MissingSubjectIsMalformed(t *testing.T) {
	t.Parallel()

	s := newService("k", time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenMalformed)
}

func TestVerify_MissingExpiryIsMalformed(t *testing.T) {
	t.Parallel()

	s := newService("k", time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u5"},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = s.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenMalformed)
}
