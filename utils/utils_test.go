package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", h)
	assert.True(t, CheckPasswordHash("secret1", h))
	assert.False(t, CheckPasswordHash("secret2", h))

	h2, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, h, h2, "salted")
}

func TestToken_RoundTrip(t *testing.T) {
	m := NewTokenManager("s3cret", 7*24*time.Hour)
	tok, err := m.GenerateToken("65a1f0c2e4b0a1b2c3d4e5f6", "ann@example.com")
	require.NoError(t, err)

	claims, err := m.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", claims.ID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestToken_Expired(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	tok, err := m.GenerateToken("u1", "a@b.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_Rejects(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)

	other, err := NewTokenManager("different", time.Hour).GenerateToken("u1", "a@b.com")
	require.NoError(t, err)
	_, err = m.VerifyToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = m.VerifyToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		ID:               "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.VerifyToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: "u1"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = m.VerifyToken(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken, "missing exp")

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = m.VerifyToken(noID)
	assert.True(t, errors.Is(err, ErrInvalidToken), "missing id")
}

func TestCacheInvalidator_PurgeEventsList(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	require.NoError(t, mr.Set(EventsListCachePrefix+"a", "1"))
	require.NoError(t, mr.Set(EventsListCachePrefix+"b", "2"))
	require.NoError(t, mr.Set("quota:user:u1:day", "3"))

	NewCacheInvalidator(rdb).PurgeEventsList(context.Background())

	assert.False(t, mr.Exists(EventsListCachePrefix+"a"))
	assert.False(t, mr.Exists(EventsListCachePrefix+"b"))
	assert.True(t, mr.Exists("quota:user:u1:day"))

	var nilInv *CacheInvalidator
	nilInv.PurgeEventsList(context.Background())
}
