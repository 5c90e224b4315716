package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/engine"
	"github.com/grantmatch/grant-match-api/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ProfileRepository defines data access for business profiles
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.BusinessProfile, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.BusinessProfile, error)
	GetAllIDs(ctx context.Context) ([]uuid.UUID, error)
	Create(ctx context.Context, profile *models.BusinessProfile) error
	Update(ctx context.Context, profile *models.BusinessProfile) error
}

// GrantRepository defines read access to ingested grant listings. The
// ingestion pipeline owns writes; the API exposes Create for seeding and
// admin tooling.
type GrantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.GrantOpportunity, error)
	GetAll(ctx context.Context, filters models.GrantFilters) ([]models.GrantOpportunity, error)
	Create(ctx context.Context, grant *models.GrantOpportunity) error
}

// RequirementRepository persists extracted compliance requirements keyed
// by grant id (the extract-or-fetch cache backing store)
type RequirementRepository interface {
	GetByGrant(ctx context.Context, grantID uuid.UUID) ([]engine.ComplianceRequirement, error)
	SaveForGrant(ctx context.Context, grantID uuid.UUID, requirements []engine.ComplianceRequirement) error
}

// ApplicationRepository reads prior grant applications (the
// historical-outcomes store)
type ApplicationRepository interface {
	GetByProfile(ctx context.Context, profileID uuid.UUID) ([]models.GrantApplication, error)
	Create(ctx context.Context, application *models.GrantApplication) error
}

// FeedbackRepository persists feedback events, metric snapshots and
// retrain-signal events
type FeedbackRepository interface {
	Append(ctx context.Context, batch []models.UserFeedback) error
	GetSince(ctx context.Context, since time.Time) ([]models.UserFeedback, error)
	Count(ctx context.Context) (int, error)
	SaveMetrics(ctx context.Context, metrics *models.ModelMetrics) error
	RecordRetrainSignal(ctx context.Context, cumulativeCount int) error
}

// RecommendationRepository stores precomputed recommendation snapshots
// produced by the batch pipeline
type RecommendationRepository interface {
	ReplaceForProfile(ctx context.Context, profileID uuid.UUID, recommendations []engine.Recommendation) error
	GetByProfile(ctx context.Context, profileID uuid.UUID) ([]StoredRecommendation, error)
}

// UserRepository defines data access for accounts
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// TransactionManager runs a function with all repositories bound to one
// database transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Profile        ProfileRepository
	Grant          GrantRepository
	Requirement    RequirementRepository
	Application    ApplicationRepository
	Feedback       FeedbackRepository
	Recommendation RecommendationRepository
	User           UserRepository
	Tx             TransactionManager
}
