package engine

import (
	"context"

	"github.com/grantmatch/grant-match-api/internal/models"
)

// stageMultipliers adjust raw compatibility by business maturity. An
// absent stage applies no multiplier.
var stageMultipliers = map[models.BusinessStage]float64{
	models.StageIdea:         0.8,
	models.StagePrototype:    0.9,
	models.StageEarlyRevenue: 1.0,
	models.StageGrowth:       1.1,
	models.StageMature:       1.0,
}

// Static narrative content. Intentionally fixed rather than derived from
// the breakdown; real personalization would need a different model.
var (
	predictionKeyFactors = []string{
		"Industry alignment with the grant's focus areas",
		"Business size and stage relative to eligibility criteria",
		"Completeness of the business profile",
		"Track record on previous grant applications",
	}

	predictionImprovements = []string{
		"Complete all business profile sections, including financials",
		"Obtain relevant certifications before applying",
		"Document past project outcomes and grant history",
		"Align the funding request with typical award sizes",
	}
)

// SuccessPredictor estimates win probability from compatibility,
// business stage and profile data completeness.
type SuccessPredictor struct {
	scorer *CompatibilityScorer
}

// NewSuccessPredictor creates a predictor over the given scorer
func NewSuccessPredictor(scorer *CompatibilityScorer) *SuccessPredictor {
	return &SuccessPredictor{scorer: scorer}
}

// PredictSuccess scores the pair and derives a prediction from the result
func (p *SuccessPredictor) PredictSuccess(ctx context.Context, profile *models.BusinessProfile, grant *models.GrantOpportunity) *SuccessPrediction {
	score := p.scorer.AnalyzeCompatibility(ctx, profile, grant)
	return p.FromScore(profile, score)
}

// FromScore derives a prediction from an already-computed compatibility
// score, avoiding a second scoring pass during ranking
func (p *SuccessPredictor) FromScore(profile *models.BusinessProfile, score *CompatibilityScore) *SuccessPrediction {
	probability := float64(score.Overall) / 100

	if multiplier, ok := stageMultipliers[profile.BusinessStage]; ok {
		probability *= multiplier
	}
	if probability > MaxSuccessProbability {
		probability = MaxSuccessProbability
	}
	if probability < 0 {
		probability = 0
	}

	confidence := BasePredictionConfidence
	if len(profile.PastGrantHistory) > 0 {
		confidence += ConfidenceBump
	}
	if profile.HasRevenue() {
		confidence += ConfidenceBump
	}
	if len(profile.Certifications) > 0 {
		confidence += ConfidenceBump
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return &SuccessPrediction{
		Probability:            probability,
		Confidence:             confidence,
		KeyFactors:             append([]string(nil), predictionKeyFactors...),
		ImprovementSuggestions: append([]string(nil), predictionImprovements...),
	}
}
