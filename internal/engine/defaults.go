package engine

// Fail-open defaults. When supporting data is missing or a collaborator
// lookup fails, sub-scores resolve to these values instead of raising an
// error. Tests assert against them directly.
const (
	// DefaultHistoricalScore applies when a profile has no decided
	// applications or the outcome lookup fails
	DefaultHistoricalScore = 50

	// DefaultComplianceScore applies when the requirement lookup fails
	DefaultComplianceScore = 70

	// CleanComplianceScore applies when extraction finds zero
	// requirements for a grant
	CleanComplianceScore = 90

	// FlatPartialCredit is the per-requirement credit given to types the
	// simplified compliance match does not evaluate directly
	FlatPartialCredit = 0.7

	// NoSizeRestrictionScore applies when a grant lists no size requirements
	NoSizeRestrictionScore = 80

	// AdjacentSizeScore applies when a size one step away on the ordinal
	// scale is listed
	AdjacentSizeScore = 60

	// SizeMismatchScore applies when the profile size is more than one
	// step from every listed size
	SizeMismatchScore = 20

	// NoLocationRestrictionScore applies when a grant has no location
	// restrictions
	NoLocationRestrictionScore = 90

	// NationalEligibilityScore applies when a restriction mentions
	// national/USA-wide eligibility
	NationalEligibilityScore = 80

	// OutOfRegionScore applies when the profile's state matches no
	// restriction
	OutOfRegionScore = 30

	// UnknownAmountFundingScore applies when the grant amount cannot be
	// parsed
	UnknownAmountFundingScore = 60

	// UnstatedNeedFundingScore applies when the profile's funding needs
	// contain no parsable dollar figure
	UnstatedNeedFundingScore = 70

	// FundingAlignmentFloor is the minimum funding-alignment score once
	// both amounts are known
	FundingAlignmentFloor = 30
)

// Overall-score weights for the deterministic rule-weighted model.
const (
	WeightIndustry   = 0.25
	WeightSize       = 0.15
	WeightGeography  = 0.10
	WeightHistorical = 0.20
	WeightCompliance = 0.20
	WeightFunding    = 0.10
)

// Ranking policy
const (
	// MinRecommendationScore is the hard inclusion cutoff for ranked
	// recommendations
	MinRecommendationScore = 30

	// MaxRecommendations caps the ranked list
	MaxRecommendations = 10

	// HighPriorityThreshold and MediumPriorityThreshold split
	// recommendations into priority tiers
	HighPriorityThreshold   = 80
	MediumPriorityThreshold = 60

	// MaxRecommendationActionItems limits action items carried onto a
	// recommendation
	MaxRecommendationActionItems = 3
)

// Success-prediction policy
const (
	// MaxSuccessProbability caps predicted probability
	MaxSuccessProbability = 0.95

	// BasePredictionConfidence is the starting confidence before
	// data-completeness bumps
	BasePredictionConfidence = 0.7

	// ConfidenceBump is added once per present data signal (history,
	// revenue, certifications)
	ConfidenceBump = 0.1
)

// ExtractionConfidence is assigned to freshly extracted requirements
const ExtractionConfidence = 0.8

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
