package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/santiago-ondris/wheels-house-sub002/internal/store"
)

func newTestService(now func() time.Time) *Service {
	return NewService(store.NewMemoryStore(), Options{
		Secret:      "test_secret",
		ExpiresDays: 1,
		BcryptCost:  bcrypt.MinCost,
		Now:         now,
	})
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, validateSignup("diecast_fan", "password1"))
	assert.ErrorIs(t, validateSignup("ab", "password1"), ErrInvalidSignup)
	assert.ErrorIs(t, validateSignup("bad name", "password1"), ErrInvalidSignup)
	assert.ErrorIs(t, validateSignup("good", "short"), ErrInvalidSignup)
}

func TestSignupLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)

	u, err := s.Signup(ctx, "  hotwheels  ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "hotwheels", u.Username)
	assert.Len(t, u.ID, 36)
	assert.NotEqual(t, "password1", u.PasswordHash)

	_, err = s.Signup(ctx, "HOTWHEELS", "password2")
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	got, err := s.Login(ctx, "hotwheels", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Login(ctx, "hotwheels", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	u, err := s.Signup(ctx, "matchbox", "password1")
	require.NoError(t, err)

	tok, exp, err := s.SignToken(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	c, err := s.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.UserID)
	assert.Equal(t, "matchbox", c.Username)

	got, err := s.Resolve(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestParseToken_Rejects(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	s := newTestService(func() time.Time { return clock })
	u := &store.User{ID: "u1", Username: "tomica"}

	tok, _, err := s.SignToken(u)
	require.NoError(t, err)

	clock = now.Add(48 * time.Hour)
	_, err = s.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	clock = now
	other := NewService(store.NewMemoryStore(), Options{Secret: "other_secret", Now: func() time.Time { return clock }})
	_, err = other.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Username: "tomica"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ParseToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	_, err = s.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolve_DeletedUser(t *testing.T) {
	s := newTestService(nil)
	tok, _, err := s.SignToken(&store.User{ID: "ghost", Username: "ghost"})
	require.NoError(t, err)

	_, err = s.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
