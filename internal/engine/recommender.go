package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
)

// Recommender ranks candidate grants for a profile. Scoring each grant
// is independent; a data gap on one grant never blocks the rest of the
// batch.
type Recommender struct {
	scorer    *CompatibilityScorer
	predictor *SuccessPredictor
	log       logger.Logger
}

// NewRecommender creates a recommender over the given scorer and predictor
func NewRecommender(scorer *CompatibilityScorer, predictor *SuccessPredictor, log logger.Logger) *Recommender {
	return &Recommender{scorer: scorer, predictor: predictor, log: log}
}

// GenerateRecommendations scores every candidate, drops low scorers,
// assigns priority tiers and returns the top entries sorted by score.
// Ties keep input order (stable sort). An empty candidate list yields an
// empty result, not an error.
func (r *Recommender) GenerateRecommendations(ctx context.Context, profile *models.BusinessProfile, grants []models.GrantOpportunity) []Recommendation {
	recommendations := make([]Recommendation, 0, len(grants))

	for i := range grants {
		grant := &grants[i]

		score := r.scorer.AnalyzeCompatibility(ctx, profile, grant)
		if score.Overall <= MinRecommendationScore {
			continue
		}

		prediction := r.predictor.FromScore(profile, score)

		actionItems := score.Recommendations
		if len(actionItems) > MaxRecommendationActionItems {
			actionItems = actionItems[:MaxRecommendationActionItems]
		}

		recommendations = append(recommendations, Recommendation{
			GrantID:     grant.ID,
			Title:       grant.Title,
			Score:       score.Overall,
			Reasoning:   buildReasoning(score),
			Priority:    priorityTier(score.Overall),
			ActionItems: append([]string(nil), actionItems...),
			Breakdown:   score.Breakdown,
			Prediction:  prediction,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > MaxRecommendations {
		recommendations = recommendations[:MaxRecommendations]
	}

	return recommendations
}

// priorityTier maps an overall score to its priority classification
func priorityTier(score int) ActionPriority {
	switch {
	case score > HighPriorityThreshold:
		return PriorityHigh
	case score > MediumPriorityThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// buildReasoning names the two highest-scoring breakdown dimensions and
// the first strength, falling back to a generic close when the score
// produced no strengths
func buildReasoning(score *CompatibilityScore) string {
	dims := score.Breakdown.dimensions()
	sort.SliceStable(dims, func(i, j int) bool {
		return dims[i].Value > dims[j].Value
	})

	highlight := ""
	if len(score.Strengths) > 0 {
		highlight = score.Strengths[0]
	} else {
		highlight = "This grant is a reasonable match for your business profile"
	}

	return fmt.Sprintf("Scored %d/100, led by %s (%d) and %s (%d). %s.",
		score.Overall,
		dims[0].Label, dims[0].Value,
		dims[1].Label, dims[1].Value,
		highlight,
	)
}
