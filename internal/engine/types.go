package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/models"
)

// RequirementType categorizes a compliance requirement extracted from
// grant description text
type RequirementType string

const (
	RequirementEligibility   RequirementType = "eligibility"
	RequirementFinancial     RequirementType = "financial"
	RequirementDocumentation RequirementType = "documentation"
	RequirementTechnical     RequirementType = "technical"
	RequirementCertification RequirementType = "certification"
)

// ComplianceRequirement is a typed condition a grant imposes on
// applicants, derived from the grant's description text.
type ComplianceRequirement struct {
	ID                  uuid.UUID       `json:"id"`
	GrantID             uuid.UUID       `json:"grant_id"`
	Type                RequirementType `json:"type"`
	Description         string          `json:"description"`
	Mandatory           bool            `json:"mandatory"`
	ValidationCriteria  []string        `json:"validation_criteria"`
	DocumentationNeeded []string        `json:"documentation_needed"`
	ConfidenceScore     float64         `json:"confidence_score"`
}

// ComplianceStatus is the evaluated satisfaction state of a requirement
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusNonCompliant ComplianceStatus = "non_compliant"
	StatusPartial      ComplianceStatus = "partial"
	StatusUnknown      ComplianceStatus = "unknown"
)

// ComplianceCheck is the evaluation of one requirement against one profile
type ComplianceCheck struct {
	Requirement     ComplianceRequirement `json:"requirement"`
	Status          ComplianceStatus      `json:"status"`
	Confidence      float64               `json:"confidence"`
	Recommendations []string              `json:"recommendations"`
}

// ActionPriority ranks how urgently an action item should be addressed
type ActionPriority string

const (
	PriorityHigh   ActionPriority = "high"
	PriorityMedium ActionPriority = "medium"
	PriorityLow    ActionPriority = "low"
)

// ActionItem is a concrete remediation task derived from a failed or
// partial compliance check
type ActionItem struct {
	Description    string          `json:"description"`
	Type           RequirementType `json:"type"`
	Priority       ActionPriority  `json:"priority"`
	EstimatedHours int             `json:"estimated_hours"`
}

// ComplianceReport aggregates all checks for one profile/grant pair
type ComplianceReport struct {
	OverallCompliance        int               `json:"overall_compliance"`
	Checks                   []ComplianceCheck `json:"checks"`
	ActionItems              []ActionItem      `json:"action_items"`
	EstimatedPreparationTime int               `json:"estimated_preparation_time"`
}

// ScoreBreakdown holds the six compatibility sub-scores, each 0-100
type ScoreBreakdown struct {
	IndustryMatch          int `json:"industry_match"`
	SizeCompatibility      int `json:"size_compatibility"`
	GeographicFit          int `json:"geographic_fit"`
	HistoricalSuccess      int `json:"historical_success"`
	RequirementsCompliance int `json:"requirements_compliance"`
	FundingAlignment       int `json:"funding_alignment"`
}

// dimension pairs a breakdown label with its value for ranking and
// reasoning text
type dimension struct {
	Label string
	Value int
}

// dimensions returns the breakdown in fixed declaration order so that
// equal scores rank deterministically
func (b ScoreBreakdown) dimensions() []dimension {
	return []dimension{
		{"industry alignment", b.IndustryMatch},
		{"business size fit", b.SizeCompatibility},
		{"geographic eligibility", b.GeographicFit},
		{"historical success", b.HistoricalSuccess},
		{"requirements compliance", b.RequirementsCompliance},
		{"funding alignment", b.FundingAlignment},
	}
}

// CompatibilityScore is the full result of scoring one profile/grant pair
type CompatibilityScore struct {
	GrantID         uuid.UUID      `json:"grant_id"`
	Overall         int            `json:"overall"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Strengths       []string       `json:"strengths"`
	Concerns        []string       `json:"concerns"`
	Recommendations []string       `json:"recommendations"`
}

// SuccessPrediction estimates the chance a profile wins a grant
type SuccessPrediction struct {
	Probability            float64  `json:"probability"`
	Confidence             float64  `json:"confidence"`
	KeyFactors             []string `json:"key_factors"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// Recommendation is one ranked grant suggestion for a profile
type Recommendation struct {
	GrantID         uuid.UUID          `json:"grant_id"`
	Title           string             `json:"title"`
	Score           int                `json:"score"`
	Reasoning       string             `json:"reasoning"`
	Priority        ActionPriority     `json:"priority"`
	ActionItems     []string           `json:"action_items"`
	Breakdown       ScoreBreakdown     `json:"compatibility_breakdown"`
	Prediction      *SuccessPrediction `json:"success_prediction,omitempty"`
}

// RequirementStore is the extract-or-fetch cache collaborator for
// extracted requirements. Implementations must treat a missing grant as
// an empty slice, not an error.
type RequirementStore interface {
	GetByGrant(ctx context.Context, grantID uuid.UUID) ([]ComplianceRequirement, error)
	SaveForGrant(ctx context.Context, grantID uuid.UUID, requirements []ComplianceRequirement) error
}

// OutcomeStore looks up prior application outcomes for a business.
// Lookup failures are treated as missing data by every caller.
type OutcomeStore interface {
	GetOutcomes(ctx context.Context, profileID uuid.UUID) ([]models.GrantApplication, error)
}
