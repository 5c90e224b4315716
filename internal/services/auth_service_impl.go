package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/auth"
	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
	"github.com/grantmatch/grant-match-api/pkg/config"
)

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	cfg        *config.Config
}

func newAuthService(repos *repository.Repositories, cfg *config.Config) AuthService {
	return &authServiceImpl{
		repos:      repos,
		jwtService: auth.NewJWTService(cfg.JWTSecret),
		cfg:        cfg,
	}
}

// Login authenticates a user and returns a signed token
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	claims := auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token, expiresAt, err := s.jwtService.GenerateToken(claims)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}

	return &models.LoginResponse{
		Token:     token,
		User:      user.Sanitized(),
		ExpiresAt: expiresAt,
	}, nil
}

// Register creates a new user account
func (s *authServiceImpl) Register(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if existing, err := s.repos.User.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.InvalidInput("invalid role", nil)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         string(role),
	}

	if err := s.repos.User.Create(ctx, user); err != nil {
		return nil, apperrors.Database("failed to create user", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// ValidateToken validates a JWT token and returns the user it belongs to
func (s *authServiceImpl) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	user, err := s.repos.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("user no longer exists", err)
		}
		return nil, apperrors.Database("failed to get user", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}
