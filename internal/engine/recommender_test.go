package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
)

func newTestRecommender() *Recommender {
	scorer := newTestScorer(&fakeOutcomeStore{})
	predictor := NewSuccessPredictor(scorer)
	return NewRecommender(scorer, predictor, logger.Nop{})
}

// lowScoreGrant scores below the inclusion cutoff for a small technology
// profile: wrong size, wrong region, an unmet financial requirement and
// an unparseable award
func lowScoreGrant() models.GrantOpportunity {
	return models.GrantOpportunity{
		ID:                       uuid.New(),
		Title:                    "Heavy Industry Consortium Grant",
		Description:              "Matching funds required.",
		Amount:                   "varies",
		BusinessSizeRequirements: []string{"large"},
		LocationRestrictions:     []string{"Bavaria"},
	}
}

func TestGenerateRecommendationsRankingAndCutoff(t *testing.T) {
	recommender := newTestRecommender()
	profile := completeProfile()

	good := *techGrant()
	weaker := *techGrant()
	weaker.ID = uuid.New()
	weaker.IndustryTags = nil // loses the industry component

	grants := []models.GrantOpportunity{lowScoreGrant(), weaker, good}
	recommendations := recommender.GenerateRecommendations(context.Background(), profile, grants)

	require.Len(t, recommendations, 2)
	assert.Equal(t, good.ID, recommendations[0].GrantID)
	assert.Equal(t, weaker.ID, recommendations[1].GrantID)

	for _, rec := range recommendations {
		assert.Greater(t, rec.Score, MinRecommendationScore)
		assert.LessOrEqual(t, len(rec.ActionItems), MaxRecommendationActionItems)
		assert.NotNil(t, rec.Prediction)
		assert.NotEmpty(t, rec.Reasoning)
	}

	// Non-increasing by score
	for i := 1; i < len(recommendations); i++ {
		assert.GreaterOrEqual(t, recommendations[i-1].Score, recommendations[i].Score)
	}
}

func TestGenerateRecommendationsTopTen(t *testing.T) {
	recommender := newTestRecommender()
	profile := completeProfile()

	grants := make([]models.GrantOpportunity, 0, 15)
	for i := 0; i < 15; i++ {
		g := *techGrant()
		g.ID = uuid.New()
		g.Title = fmt.Sprintf("Technology Grant %d", i)
		grants = append(grants, g)
	}

	recommendations := recommender.GenerateRecommendations(context.Background(), profile, grants)
	assert.Len(t, recommendations, MaxRecommendations)
}

func TestGenerateRecommendationsStableTies(t *testing.T) {
	recommender := newTestRecommender()
	profile := completeProfile()

	first := *techGrant()
	second := *techGrant()
	second.ID = uuid.New()

	recommendations := recommender.GenerateRecommendations(context.Background(), profile,
		[]models.GrantOpportunity{first, second})

	require.Len(t, recommendations, 2)
	assert.Equal(t, recommendations[0].Score, recommendations[1].Score)
	assert.Equal(t, first.ID, recommendations[0].GrantID)
	assert.Equal(t, second.ID, recommendations[1].GrantID)
}

func TestGenerateRecommendationsEmptyInput(t *testing.T) {
	recommender := newTestRecommender()

	recommendations := recommender.GenerateRecommendations(context.Background(), completeProfile(), nil)
	assert.Empty(t, recommendations)
}

func TestGenerateRecommendationsMalformedGrant(t *testing.T) {
	recommender := newTestRecommender()

	// A grant with no usable fields must not panic; it simply scores low
	grants := []models.GrantOpportunity{{ID: uuid.New()}, *techGrant()}
	recommendations := recommender.GenerateRecommendations(context.Background(), completeProfile(), grants)

	assert.NotEmpty(t, recommendations)
}

func TestPriorityTier(t *testing.T) {
	assert.Equal(t, PriorityHigh, priorityTier(81))
	assert.Equal(t, PriorityMedium, priorityTier(80))
	assert.Equal(t, PriorityMedium, priorityTier(61))
	assert.Equal(t, PriorityLow, priorityTier(60))
	assert.Equal(t, PriorityLow, priorityTier(31))
}

func TestBuildReasoning(t *testing.T) {
	score := &CompatibilityScore{
		Overall: 65,
		Breakdown: ScoreBreakdown{
			IndustryMatch:          40,
			SizeCompatibility:      100,
			GeographicFit:          90,
			HistoricalSuccess:      50,
			RequirementsCompliance: 80,
			FundingAlignment:       50,
		},
		Strengths: []string{"Business size matches the grant's eligibility criteria"},
	}

	reasoning := buildReasoning(score)
	assert.Equal(t,
		"Scored 65/100, led by business size fit (100) and geographic eligibility (90). Business size matches the grant's eligibility criteria.",
		reasoning)
}

func TestBuildReasoningFallback(t *testing.T) {
	score := &CompatibilityScore{
		Overall:   45,
		Breakdown: ScoreBreakdown{IndustryMatch: 50, SizeCompatibility: 50},
	}

	reasoning := buildReasoning(score)
	assert.Contains(t, reasoning, "This grant is a reasonable match for your business profile")
}
