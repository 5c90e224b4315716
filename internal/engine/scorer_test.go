package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
)

// fakeOutcomeStore implements OutcomeStore for testing
type fakeOutcomeStore struct {
	outcomes []models.GrantApplication
	err      error
}

func (f *fakeOutcomeStore) GetOutcomes(ctx context.Context, profileID uuid.UUID) ([]models.GrantApplication, error) {
	return f.outcomes, f.err
}

func newTestScorer(outcomes OutcomeStore) *CompatibilityScorer {
	extractor := NewRequirementExtractor(nil, logger.Nop{})
	checker := NewComplianceChecker()
	return NewCompatibilityScorer(extractor, checker, outcomes, logger.Nop{})
}

func techGrant() *models.GrantOpportunity {
	return &models.GrantOpportunity{
		ID:                       uuid.New(),
		Title:                    "Small Business Technology Grant",
		Agency:                   "SBA",
		Description:              "Small business technology grant. A detailed business plan is required.",
		Amount:                   "$250,000",
		IndustryTags:             []string{"Technology"},
		BusinessSizeRequirements: []string{"small"},
	}
}

func TestAnalyzeCompatibilityScenario(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})
	profile := completeProfile()
	grant := techGrant()

	score := scorer.AnalyzeCompatibility(context.Background(), profile, grant)

	assert.Equal(t, grant.ID, score.GrantID)
	assert.Equal(t, 40, score.Breakdown.IndustryMatch)
	assert.Equal(t, 100, score.Breakdown.SizeCompatibility)
	assert.Equal(t, NoLocationRestrictionScore, score.Breakdown.GeographicFit)
	assert.Equal(t, DefaultHistoricalScore, score.Breakdown.HistoricalSuccess)

	// eligibility met, documentation and technical earn flat partial
	// credit: round(100 * 2.4 / 3) = 80
	assert.Equal(t, 80, score.Breakdown.RequirementsCompliance)

	// 250k grant against a 500k need: symmetric ratio 0.5
	assert.Equal(t, 50, score.Breakdown.FundingAlignment)

	// 40*0.25 + 100*0.15 + 90*0.10 + 50*0.20 + 80*0.20 + 50*0.10 = 65
	assert.Equal(t, 65, score.Overall)
}

func TestAnalyzeCompatibilityDeterministic(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})
	profile := completeProfile()
	grant := techGrant()

	first := scorer.AnalyzeCompatibility(context.Background(), profile, grant)
	second := scorer.AnalyzeCompatibility(context.Background(), profile, grant)

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

func TestAnalyzeCompatibilityBounds(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})
	profile := &models.BusinessProfile{ID: uuid.New()}
	grant := &models.GrantOpportunity{ID: uuid.New()}

	score := scorer.AnalyzeCompatibility(context.Background(), profile, grant)

	assert.GreaterOrEqual(t, score.Overall, 0)
	assert.LessOrEqual(t, score.Overall, 100)
	for _, dim := range score.Breakdown.dimensions() {
		assert.GreaterOrEqual(t, dim.Value, 0, dim.Label)
		assert.LessOrEqual(t, dim.Value, 100, dim.Label)
	}
}

func TestScoreSizeCompatibility(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})
	profile := completeProfile()

	// No restrictions
	assert.Equal(t, NoSizeRestrictionScore,
		scorer.scoreSizeCompatibility(profile, &models.GrantOpportunity{}))

	// Direct match
	assert.Equal(t, 100,
		scorer.scoreSizeCompatibility(profile, &models.GrantOpportunity{BusinessSizeRequirements: []string{"Small"}}))

	// Adjacent on the ordinal scale (small vs medium)
	assert.Equal(t, AdjacentSizeScore,
		scorer.scoreSizeCompatibility(profile, &models.GrantOpportunity{BusinessSizeRequirements: []string{"medium"}}))

	// Two steps away (small vs large)
	assert.Equal(t, SizeMismatchScore,
		scorer.scoreSizeCompatibility(profile, &models.GrantOpportunity{BusinessSizeRequirements: []string{"large"}}))
}

func TestScoreGeographicFit(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})
	profile := completeProfile() // Texas

	assert.Equal(t, NoLocationRestrictionScore,
		scorer.scoreGeographicFit(profile, &models.GrantOpportunity{}))

	assert.Equal(t, 100,
		scorer.scoreGeographicFit(profile, &models.GrantOpportunity{LocationRestrictions: []string{"Texas and Oklahoma"}}))

	assert.Equal(t, NationalEligibilityScore,
		scorer.scoreGeographicFit(profile, &models.GrantOpportunity{LocationRestrictions: []string{"National program"}}))

	assert.Equal(t, OutOfRegionScore,
		scorer.scoreGeographicFit(profile, &models.GrantOpportunity{LocationRestrictions: []string{"California"}}))
}

func TestScoreHistoricalSuccess(t *testing.T) {
	awarded := models.GrantApplication{Status: models.ApplicationAwarded}
	rejected := models.GrantApplication{Status: models.ApplicationRejected}
	pending := models.GrantApplication{Status: models.ApplicationPending}

	profile := completeProfile()
	ctx := context.Background()

	// 2 awarded of 3 decided; the pending application is excluded
	scorer := newTestScorer(&fakeOutcomeStore{outcomes: []models.GrantApplication{awarded, awarded, rejected, pending}})
	assert.Equal(t, 67, scorer.scoreHistoricalSuccess(ctx, profile))

	// No decided applications
	scorer = newTestScorer(&fakeOutcomeStore{outcomes: []models.GrantApplication{pending}})
	assert.Equal(t, DefaultHistoricalScore, scorer.scoreHistoricalSuccess(ctx, profile))

	// Lookup failure fails open to the default
	scorer = newTestScorer(&fakeOutcomeStore{err: errors.New("db down")})
	assert.Equal(t, DefaultHistoricalScore, scorer.scoreHistoricalSuccess(ctx, profile))
}

func TestScoreFundingAlignment(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})
	profile := completeProfile() // needs $500,000

	// Unparseable grant amount
	assert.Equal(t, UnknownAmountFundingScore,
		scorer.scoreFundingAlignment(profile, &models.GrantOpportunity{Amount: "varies"}))

	// Unstated need
	unstated := completeProfile()
	unstated.FundingNeeds = "working capital"
	assert.Equal(t, UnstatedNeedFundingScore,
		scorer.scoreFundingAlignment(unstated, &models.GrantOpportunity{Amount: "$250,000"}))

	// Exact match
	assert.Equal(t, 100,
		scorer.scoreFundingAlignment(profile, &models.GrantOpportunity{Amount: "$500,000"}))

	// Symmetric falloff with a floor
	assert.Equal(t, 50,
		scorer.scoreFundingAlignment(profile, &models.GrantOpportunity{Amount: "$1M"}))
	assert.Equal(t, FundingAlignmentFloor,
		scorer.scoreFundingAlignment(profile, &models.GrantOpportunity{Amount: "$25k"}))
}

func TestScoreIndustryMatchComponents(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})

	profile := completeProfile()
	profile.NAICSCodes = []string{"541511", "541512"}
	profile.FocusAreas = []string{"robotics"}

	grant := &models.GrantOpportunity{
		Description:  "Funding for advanced robotics research",
		IndustryTags: []string{"Technology"},
		NAICSCodes:   []string{"541511"},
	}

	// 0.4 industry + 0.3*(1/2) NAICS + 0.3*(1/1) focus = 0.85
	assert.Equal(t, 85, scorer.scoreIndustryMatch(profile, grant))
}

func TestCheckComplianceViaScorer(t *testing.T) {
	scorer := newTestScorer(&fakeOutcomeStore{})
	profile := completeProfile()
	grant := techGrant()

	report := scorer.CheckCompliance(context.Background(), profile, grant)

	require.Len(t, report.Checks, 3)
	assert.Greater(t, report.OverallCompliance, 0)
}

func TestDeriveInsightsThresholds(t *testing.T) {
	score := &CompatibilityScore{
		Breakdown: ScoreBreakdown{
			IndustryMatch:          95,
			SizeCompatibility:      100,
			GeographicFit:          95,
			HistoricalSuccess:      90,
			RequirementsCompliance: 95,
			FundingAlignment:       95,
		},
	}

	scorer := newTestScorer(&fakeOutcomeStore{})
	scorer.deriveInsights(score)

	assert.Len(t, score.Strengths, 6)
	assert.Empty(t, score.Concerns)

	// The two closing recommendations are always present
	require.GreaterOrEqual(t, len(score.Recommendations), 2)
	assert.Equal(t, "Develop a detailed proposal tailored to the grant's objectives",
		score.Recommendations[len(score.Recommendations)-2])
	assert.Equal(t, "Prepare supporting documentation well before the deadline",
		score.Recommendations[len(score.Recommendations)-1])
}
