package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantmatch/grant-match-api/internal/engine"
	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/repository"
)

func newTestRecommendationService(t *testing.T) (RecommendationService, *mockProfileRepository, *mockGrantRepository, *mockRecommendationRepository) {
	t.Helper()

	profiles := newMockProfileRepository()
	grants := &mockGrantRepository{}
	applications := newMockApplicationRepository()
	recommendations := newMockRecommendationRepository()

	repos := &repository.Repositories{
		Profile:        profiles,
		Grant:          grants,
		Application:    applications,
		Recommendation: recommendations,
	}
	repos.Tx = &mockTransactionManager{repos: repos}

	log := logger.Nop{}
	extractor := engine.NewRequirementExtractor(nil, log)
	checker := engine.NewComplianceChecker()
	scorer := engine.NewCompatibilityScorer(extractor, checker, outcomeStore{applications}, log)
	predictor := engine.NewSuccessPredictor(scorer)
	recommender := engine.NewRecommender(scorer, predictor, log)

	return newRecommendationService(repos, scorer, predictor, recommender, log), profiles, grants, recommendations
}

func testProfile() *models.BusinessProfile {
	revenue := 1_200_000.0
	return &models.BusinessProfile{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		CompanyName:   "Acme Robotics",
		Industry:      "Technology",
		BusinessSize:  models.SizeSmall,
		BusinessStage: models.StagePrototype,
		AnnualRevenue: &revenue,
		Location:      models.Location{City: "Austin", State: "Texas", Country: "USA"},
		Description:   "Industrial robotics startup",
		FundingNeeds:  "$500,000",
	}
}

func testGrant() models.GrantOpportunity {
	return models.GrantOpportunity{
		ID:                       uuid.New(),
		Title:                    "Small Business Technology Grant",
		Agency:                   "SBA",
		Description:              "Small business technology grant. A detailed business plan is required.",
		Amount:                   "$250,000",
		IndustryTags:             []string{"Technology"},
		BusinessSizeRequirements: []string{"small"},
	}
}

func TestAnalyzeCompatibilityService(t *testing.T) {
	service, profiles, grants, _ := newTestRecommendationService(t)

	profile := testProfile()
	require.NoError(t, profiles.Create(context.Background(), profile))

	grant := testGrant()
	grants.grants = append(grants.grants, grant)

	score, err := service.AnalyzeCompatibility(context.Background(), profile.ID, grant.ID)
	require.NoError(t, err)
	assert.Equal(t, grant.ID, score.GrantID)
	assert.Equal(t, 65, score.Overall)
}

func TestAnalyzeCompatibilityUnknownProfile(t *testing.T) {
	service, _, grants, _ := newTestRecommendationService(t)
	grant := testGrant()
	grants.grants = append(grants.grants, grant)

	_, err := service.AnalyzeCompatibility(context.Background(), uuid.New(), grant.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCheckComplianceService(t *testing.T) {
	service, profiles, grants, _ := newTestRecommendationService(t)

	profile := testProfile()
	require.NoError(t, profiles.Create(context.Background(), profile))
	grant := testGrant()
	grants.grants = append(grants.grants, grant)

	report, err := service.CheckCompliance(context.Background(), profile.ID, grant.ID)
	require.NoError(t, err)
	assert.Len(t, report.Checks, 3)
	assert.Greater(t, report.OverallCompliance, 0)
}

func TestPredictSuccessService(t *testing.T) {
	service, profiles, grants, _ := newTestRecommendationService(t)

	profile := testProfile()
	require.NoError(t, profiles.Create(context.Background(), profile))
	grant := testGrant()
	grants.grants = append(grants.grants, grant)

	prediction, err := service.PredictSuccess(context.Background(), profile.ID, grant.ID)
	require.NoError(t, err)
	assert.Greater(t, prediction.Probability, 0.0)
	assert.LessOrEqual(t, prediction.Probability, engine.MaxSuccessProbability)
}

func TestGenerateAndStore(t *testing.T) {
	service, profiles, grants, stored := newTestRecommendationService(t)

	profile := testProfile()
	require.NoError(t, profiles.Create(context.Background(), profile))
	grants.grants = append(grants.grants, testGrant(), testGrant())

	recommendations, err := service.GenerateAndStore(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Len(t, recommendations, 2)

	rows, err := service.GetStored(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	decoded, err := rows[0].Recommendation()
	require.NoError(t, err)
	assert.Equal(t, recommendations[0].GrantID, decoded.GrantID)
	assert.Equal(t, recommendations[0].Score, decoded.Score)

	// A second run replaces the snapshot instead of appending
	_, err = service.GenerateAndStore(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Len(t, stored.stored[profile.ID], 2)
}

func TestGenerateSkipsLowScorers(t *testing.T) {
	service, profiles, grants, _ := newTestRecommendationService(t)

	profile := testProfile()
	require.NoError(t, profiles.Create(context.Background(), profile))

	grants.grants = append(grants.grants, models.GrantOpportunity{
		ID:                       uuid.New(),
		Title:                    "Heavy Industry Consortium Grant",
		Description:              "Matching funds required.",
		Amount:                   "varies",
		BusinessSizeRequirements: []string{"large"},
		LocationRestrictions:     []string{"Bavaria"},
	})

	recommendations, err := service.Generate(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Empty(t, recommendations)
}
