package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/engine"
	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
)

// recommendationServiceImpl implements RecommendationService
type recommendationServiceImpl struct {
	repos       *repository.Repositories
	scorer      *engine.CompatibilityScorer
	predictor   *engine.SuccessPredictor
	recommender *engine.Recommender
	log         logger.Logger
}

func newRecommendationService(
	repos *repository.Repositories,
	scorer *engine.CompatibilityScorer,
	predictor *engine.SuccessPredictor,
	recommender *engine.Recommender,
	log logger.Logger,
) RecommendationService {
	return &recommendationServiceImpl{
		repos:       repos,
		scorer:      scorer,
		predictor:   predictor,
		recommender: recommender,
		log:         log,
	}
}

// AnalyzeCompatibility scores one profile/grant pair across all six
// compatibility dimensions
func (s *recommendationServiceImpl) AnalyzeCompatibility(ctx context.Context, profileID, grantID uuid.UUID) (*engine.CompatibilityScore, error) {
	profile, grant, err := s.loadPair(ctx, profileID, grantID)
	if err != nil {
		return nil, err
	}
	return s.scorer.AnalyzeCompatibility(ctx, profile, grant), nil
}

// CheckCompliance evaluates the profile against the grant's extracted
// requirements
func (s *recommendationServiceImpl) CheckCompliance(ctx context.Context, profileID, grantID uuid.UUID) (*engine.ComplianceReport, error) {
	profile, grant, err := s.loadPair(ctx, profileID, grantID)
	if err != nil {
		return nil, err
	}
	report := s.scorer.CheckCompliance(ctx, profile, grant)
	return &report, nil
}

// PredictSuccess estimates the win probability for one profile/grant pair
func (s *recommendationServiceImpl) PredictSuccess(ctx context.Context, profileID, grantID uuid.UUID) (*engine.SuccessPrediction, error) {
	profile, grant, err := s.loadPair(ctx, profileID, grantID)
	if err != nil {
		return nil, err
	}
	return s.predictor.PredictSuccess(ctx, profile, grant), nil
}

// Generate scores the profile against the full grant catalog and returns
// the ranked recommendations without persisting them
func (s *recommendationServiceImpl) Generate(ctx context.Context, profileID uuid.UUID) ([]engine.Recommendation, error) {
	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	grants, err := s.repos.Grant.GetAll(ctx, models.GrantFilters{})
	if err != nil {
		return nil, apperrors.Database("failed to list grants", err)
	}

	return s.recommender.GenerateRecommendations(ctx, profile, grants), nil
}

// GenerateAndStore generates recommendations and replaces the stored
// snapshot for the profile
func (s *recommendationServiceImpl) GenerateAndStore(ctx context.Context, profileID uuid.UUID) ([]engine.Recommendation, error) {
	recommendations, err := s.Generate(ctx, profileID)
	if err != nil {
		return nil, err
	}

	err = s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		return repos.Recommendation.ReplaceForProfile(ctx, profileID, recommendations)
	})
	if err != nil {
		return nil, apperrors.Database("failed to store recommendations", err)
	}
	return recommendations, nil
}

// GetStored returns the latest persisted recommendation snapshot
func (s *recommendationServiceImpl) GetStored(ctx context.Context, profileID uuid.UUID) ([]repository.StoredRecommendation, error) {
	stored, err := s.repos.Recommendation.GetByProfile(ctx, profileID)
	if err != nil {
		return nil, apperrors.Database("failed to get recommendations", err)
	}
	return stored, nil
}

// loadProfile fetches a profile with its application history attached.
// History lookup failures degrade to no history rather than failing the
// whole request.
func (s *recommendationServiceImpl) loadProfile(ctx context.Context, profileID uuid.UUID) (*models.BusinessProfile, error) {
	profile, err := s.repos.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("profile not found", err)
		}
		return nil, apperrors.Database("failed to get profile", err)
	}

	history, err := s.repos.Application.GetByProfile(ctx, profileID)
	if err != nil {
		s.log.Warn("application history lookup failed", "profile_id", profileID, "error", err)
	} else {
		profile.PastGrantHistory = history
	}
	return profile, nil
}

func (s *recommendationServiceImpl) loadPair(ctx context.Context, profileID, grantID uuid.UUID) (*models.BusinessProfile, *models.GrantOpportunity, error) {
	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, nil, err
	}

	grant, err := s.repos.Grant.GetByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NotFound("grant not found", err)
		}
		return nil, nil, apperrors.Database("failed to get grant", err)
	}
	return profile, grant, nil
}
