package services

import (
	"context"
	"testing"

	"bto-flathub/internal/config"
	"bto-flathub/internal/core/domain"
	"bto-flathub/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authFixture(t *testing.T) (*fixture, *AuthService) {
	t.Helper()
	f := newFixture()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 30,
		},
	}
	return f, NewAuthService(f.userRepo, f.tokenRepo, cfg)
}

func (f *fixture) userWithPassword(t *testing.T, nric, plain string) {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	user := f.applicant(nric, 40, domain.Married)
	user.Password = hash
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		f, auth := authFixture(t)
		f.userWithPassword(t, "S1111111B", "password123")

		resp, err := auth.Login(ctx, &LoginInput{NRIC: "S1111111B", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "S1111111B", resp.User.NRIC)
		assert.Len(t, f.store.tokens, 1)
	})

	t.Run("wrong password", func(t *testing.T) {
		f, auth := authFixture(t)
		f.userWithPassword(t, "S1111111B", "password123")

		_, err := auth.Login(ctx, &LoginInput{NRIC: "S1111111B", Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown NRIC looks identical to a wrong password", func(t *testing.T) {
		_, auth := authFixture(t)

		_, err := auth.Login(ctx, &LoginInput{NRIC: "S9999999Z", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		f, auth := authFixture(t)
		f.userWithPassword(t, "S1111111B", "password123")
		for _, u := range f.store.users {
			u.IsActive = false
		}

		_, err := auth.Login(ctx, &LoginInput{NRIC: "S1111111B", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()

	f, auth := authFixture(t)
	f.userWithPassword(t, "S1111111B", "password123")

	first, err := auth.Login(ctx, &LoginInput{NRIC: "S1111111B", Password: "password123"})
	require.NoError(t, err)

	second, err := auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The presented token was spent on rotation.
	_, err = auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// The replacement still works.
	_, err = auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	_, auth := authFixture(t)

	_, err := auth.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("logout revokes the presented token", func(t *testing.T) {
		f, auth := authFixture(t)
		f.userWithPassword(t, "S1111111B", "password123")

		resp, err := auth.Login(ctx, &LoginInput{NRIC: "S1111111B", Password: "password123"})
		require.NoError(t, err)

		require.NoError(t, auth.Logout(ctx, resp.RefreshToken))

		_, err = auth.Refresh(ctx, resp.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("logout-all revokes every session", func(t *testing.T) {
		f, auth := authFixture(t)
		f.userWithPassword(t, "S1111111B", "password123")

		a, err := auth.Login(ctx, &LoginInput{NRIC: "S1111111B", Password: "password123"})
		require.NoError(t, err)
		b, err := auth.Login(ctx, &LoginInput{NRIC: "S1111111B", Password: "password123"})
		require.NoError(t, err)

		var userID uint
		for id := range f.store.users {
			userID = id
		}
		require.NoError(t, auth.LogoutAll(ctx, userID))

		_, err = auth.Refresh(ctx, a.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		_, err = auth.Refresh(ctx, b.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
