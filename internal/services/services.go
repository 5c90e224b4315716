package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/cache"
	"github.com/grantmatch/grant-match-api/internal/engine"
	"github.com/grantmatch/grant-match-api/internal/feedback"
	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
	"github.com/grantmatch/grant-match-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Profile        ProfileService
	Grant          GrantService
	Recommendation RecommendationService
	Feedback       FeedbackService
	Auth           AuthService
}

// ProfileService defines the interface for business profile logic
type ProfileService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.BusinessProfile, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.BusinessProfile, error)
	Create(ctx context.Context, userID uuid.UUID, form *models.ProfileForm) (*models.BusinessProfile, error)
	Update(ctx context.Context, id uuid.UUID, form *models.ProfileForm) (*models.BusinessProfile, error)
}

// GrantService defines the interface for grant catalog logic
type GrantService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.GrantOpportunity, error)
	GetAll(ctx context.Context, filters models.GrantFilters) ([]models.GrantOpportunity, error)
	Create(ctx context.Context, grant *models.GrantOpportunity) error
	GetRequirements(ctx context.Context, grantID uuid.UUID) ([]engine.ComplianceRequirement, error)
	RecordApplication(ctx context.Context, application *models.GrantApplication) error
}

// RecommendationService defines the interface for compatibility analysis
// and recommendation generation
type RecommendationService interface {
	AnalyzeCompatibility(ctx context.Context, profileID, grantID uuid.UUID) (*engine.CompatibilityScore, error)
	CheckCompliance(ctx context.Context, profileID, grantID uuid.UUID) (*engine.ComplianceReport, error)
	PredictSuccess(ctx context.Context, profileID, grantID uuid.UUID) (*engine.SuccessPrediction, error)
	Generate(ctx context.Context, profileID uuid.UUID) ([]engine.Recommendation, error)
	GenerateAndStore(ctx context.Context, profileID uuid.UUID) ([]engine.Recommendation, error)
	GetStored(ctx context.Context, profileID uuid.UUID) ([]repository.StoredRecommendation, error)
}

// FeedbackService defines the interface for feedback collection and
// model metric evaluation
type FeedbackService interface {
	Submit(ctx context.Context, event *models.UserFeedback) error
	SubmitBatch(ctx context.Context, batch []models.UserFeedback) error
	Metrics(ctx context.Context, windowDays int) (*models.ModelMetrics, error)
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(db *sql.DB, cfg *config.Config, log logger.Logger) (*Services, error) {
	repos := repository.NewRepositories(db)

	requirements, err := cache.NewRequirementCache(cfg.RedisURL, repos.Requirement, cfg.RequirementCacheTTL, log)
	if err != nil {
		return nil, err
	}

	extractor := engine.NewRequirementExtractor(requirements, log)
	checker := engine.NewComplianceChecker()
	scorer := engine.NewCompatibilityScorer(extractor, checker, outcomeStore{repos.Application}, log)
	predictor := engine.NewSuccessPredictor(scorer)
	recommender := engine.NewRecommender(scorer, predictor, log)
	aggregator := feedback.NewAggregator(repos.Feedback, log)

	return &Services{
		Profile:        newProfileService(repos),
		Grant:          newGrantService(repos, extractor),
		Recommendation: newRecommendationService(repos, scorer, predictor, recommender, log),
		Feedback:       newFeedbackService(aggregator),
		Auth:           newAuthService(repos, cfg),
	}, nil
}

// outcomeStore adapts the application repository to the engine's
// historical-outcome lookup
type outcomeStore struct {
	applications repository.ApplicationRepository
}

func (o outcomeStore) GetOutcomes(ctx context.Context, profileID uuid.UUID) ([]models.GrantApplication, error) {
	return o.applications.GetByProfile(ctx, profileID)
}
