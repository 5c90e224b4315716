package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
)

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	repos *repository.Repositories
}

func newProfileService(repos *repository.Repositories) ProfileService {
	return &profileServiceImpl{repos: repos}
}

// GetByID retrieves a profile with its application history attached
func (s *profileServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.BusinessProfile, error) {
	profile, err := s.repos.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("profile not found", err)
		}
		return nil, apperrors.Database("failed to get profile", err)
	}

	if history, err := s.repos.Application.GetByProfile(ctx, id); err == nil {
		profile.PastGrantHistory = history
	}
	return profile, nil
}

// GetByUser retrieves the profile owned by a user
func (s *profileServiceImpl) GetByUser(ctx context.Context, userID uuid.UUID) (*models.BusinessProfile, error) {
	profile, err := s.repos.Profile.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("profile not found", err)
		}
		return nil, apperrors.Database("failed to get profile", err)
	}

	if history, err := s.repos.Application.GetByProfile(ctx, profile.ID); err == nil {
		profile.PastGrantHistory = history
	}
	return profile, nil
}

// Create validates the form and persists a new profile
func (s *profileServiceImpl) Create(ctx context.Context, userID uuid.UUID, form *models.ProfileForm) (*models.BusinessProfile, error) {
	if err := form.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	profile := applyForm(&models.BusinessProfile{ID: uuid.New(), UserID: userID}, form)
	if err := s.repos.Profile.Create(ctx, profile); err != nil {
		return nil, apperrors.Database("failed to create profile", err)
	}
	return profile, nil
}

// Update validates the form and overwrites an existing profile
func (s *profileServiceImpl) Update(ctx context.Context, id uuid.UUID, form *models.ProfileForm) (*models.BusinessProfile, error) {
	if err := form.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	existing, err := s.repos.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("profile not found", err)
		}
		return nil, apperrors.Database("failed to get profile", err)
	}

	profile := applyForm(existing, form)
	if err := s.repos.Profile.Update(ctx, profile); err != nil {
		return nil, apperrors.Database("failed to update profile", err)
	}
	return profile, nil
}

func applyForm(profile *models.BusinessProfile, form *models.ProfileForm) *models.BusinessProfile {
	profile.CompanyName = form.CompanyName
	profile.Industry = form.Industry
	profile.NAICSCodes = form.NAICSCodes
	profile.BusinessSize = models.BusinessSize(form.BusinessSize)
	profile.EmployeeCount = form.EmployeeCount
	profile.AnnualRevenue = form.AnnualRevenue
	profile.Location = form.Location
	profile.BusinessStage = models.BusinessStage(form.BusinessStage)
	profile.Description = form.Description
	profile.FocusAreas = form.FocusAreas
	profile.Certifications = form.Certifications
	profile.TechnologyStack = form.TechnologyStack
	profile.TargetMarkets = form.TargetMarkets
	profile.CompetitiveAdvantages = form.CompetitiveAdvantages
	profile.FundingNeeds = form.FundingNeeds
	return profile
}
