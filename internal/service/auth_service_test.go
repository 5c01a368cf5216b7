package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/config"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

func newAuthService() *AuthService {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	return NewAuthService(repository.NewMemoryStore(), cfg, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthService()
	ctx := context.Background()

	registered, err := auth.Register(ctx, model.UserCreate{
		Email:    "ava@example.com",
		Name:     "Ava",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.AccessToken)
	require.NotEmpty(t, registered.RefreshToken)
	require.Equal(t, model.RoleUser, registered.User.Role)
	require.NotEqual(t, "correct horse", registered.User.PasswordHash)

	loggedIn, err := auth.Login(ctx, model.UserLogin{
		Email:    "ava@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = auth.Login(ctx, model.UserLogin{
		Email:    "ava@example.com",
		Password: "wrong",
	})
	require.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newAuthService()
	ctx := context.Background()

	_, err := auth.Register(ctx, model.UserCreate{
		Email: "ben@example.com", Name: "Ben", Password: "password1",
	})
	require.NoError(t, err)

	_, err = auth.Register(ctx, model.UserCreate{
		Email: "ben@example.com", Name: "Ben Again", Password: "password2",
	})
	require.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestValidateToken(t *testing.T) {
	auth := newAuthService()
	ctx := context.Background()

	response, err := auth.Register(ctx, model.UserCreate{
		Email: "cara@example.com", Name: "Cara", Password: "password1",
	})
	require.NoError(t, err)

	userID, role, err := auth.ValidateToken(response.AccessToken)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, userID)
	require.Equal(t, model.RoleUser, role)

	// A refresh token is not accepted where an access token is expected.
	_, _, err = auth.ValidateToken(response.RefreshToken)
	require.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, _, err = auth.ValidateToken("not-a-token")
	require.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestRefreshToken(t *testing.T) {
	auth := newAuthService()
	ctx := context.Background()

	response, err := auth.Register(ctx, model.UserCreate{
		Email: "dan@example.com", Name: "Dan", Password: "password1",
	})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(ctx, response.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, refreshed.User.ID)
	require.NotEmpty(t, refreshed.AccessToken)

	// An access token cannot be used to refresh.
	_, err = auth.RefreshToken(ctx, response.AccessToken)
	require.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
