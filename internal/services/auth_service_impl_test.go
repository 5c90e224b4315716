package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
	"github.com/grantmatch/grant-match-api/pkg/config"
)

func newTestAuthService() AuthService {
	repos := &repository.Repositories{User: newMockUserRepository()}
	cfg := &config.Config{JWTSecret: "test-secret"}
	return newAuthService(repos, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	user, err := service.Register(ctx, &models.CreateUserRequest{
		Email:    "founder@acme.example",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.Empty(t, user.PasswordHash)

	resp, err := service.Login(ctx, "founder@acme.example", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.False(t, resp.ExpiresAt.IsZero())
}

func TestLoginWrongPassword(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, &models.CreateUserRequest{
		Email:    "founder@acme.example",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = service.Login(ctx, "founder@acme.example", "wrong")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, &models.CreateUserRequest{Email: "a@b.example", Password: "hunter22"})
	require.NoError(t, err)

	_, err = service.Register(ctx, &models.CreateUserRequest{Email: "a@b.example", Password: "hunter22"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestRegisterInvalidRole(t *testing.T) {
	service := newTestAuthService()

	_, err := service.Register(context.Background(), &models.CreateUserRequest{
		Email:    "a@b.example",
		Password: "hunter22",
		Role:     "superuser",
	})
	require.Error(t, err)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, &models.CreateUserRequest{Email: "a@b.example", Password: "hunter22"})
	require.NoError(t, err)

	resp, err := service.Login(ctx, "a@b.example", "hunter22")
	require.NoError(t, err)

	user, err := service.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.example", user.Email)

	_, err = service.ValidateToken(ctx, "not-a-token")
	assert.Error(t, err)
}
