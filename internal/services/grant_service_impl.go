package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/engine"
	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
)

// grantServiceImpl implements GrantService
type grantServiceImpl struct {
	repos     *repository.Repositories
	extractor *engine.RequirementExtractor
}

func newGrantService(repos *repository.Repositories, extractor *engine.RequirementExtractor) GrantService {
	return &grantServiceImpl{repos: repos, extractor: extractor}
}

// GetByID retrieves a single grant listing
func (s *grantServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.GrantOpportunity, error) {
	grant, err := s.repos.Grant.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("grant not found", err)
		}
		return nil, apperrors.Database("failed to get grant", err)
	}
	return grant, nil
}

// GetAll retrieves grant listings matching the filters
func (s *grantServiceImpl) GetAll(ctx context.Context, filters models.GrantFilters) ([]models.GrantOpportunity, error) {
	grants, err := s.repos.Grant.GetAll(ctx, filters)
	if err != nil {
		return nil, apperrors.Database("failed to list grants", err)
	}
	return grants, nil
}

// Create persists a grant listing. Used by seeding and admin tooling;
// the ingestion pipeline writes grants directly.
func (s *grantServiceImpl) Create(ctx context.Context, grant *models.GrantOpportunity) error {
	if grant.Title == "" {
		return apperrors.InvalidInput("grant title is required", nil)
	}
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	if err := s.repos.Grant.Create(ctx, grant); err != nil {
		return apperrors.Database("failed to create grant", err)
	}
	return nil
}

// GetRequirements returns the grant's compliance requirements, extracting
// them from the description on first request
func (s *grantServiceImpl) GetRequirements(ctx context.Context, grantID uuid.UUID) ([]engine.ComplianceRequirement, error) {
	grant, err := s.GetByID(ctx, grantID)
	if err != nil {
		return nil, err
	}
	return s.extractor.ExtractRequirements(ctx, grant.ID, grant.Description)
}

// RecordApplication stores a grant application outcome for a profile
func (s *grantServiceImpl) RecordApplication(ctx context.Context, application *models.GrantApplication) error {
	if application.ProfileID == uuid.Nil || application.GrantID == uuid.Nil {
		return apperrors.InvalidInput("profile_id and grant_id are required", nil)
	}
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	if err := s.repos.Application.Create(ctx, application); err != nil {
		return apperrors.Database("failed to record application", err)
	}
	return nil
}
