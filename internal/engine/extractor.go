package engine

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/logger"
)

// requirementPattern maps a disjoint phrase set to the fixed requirement
// record it triggers. Each pattern produces at most one requirement per
// grant, so no deduplication is needed.
type requirementPattern struct {
	phrases             []string
	reqType             RequirementType
	description         string
	mandatory           bool
	validationCriteria  []string
	documentationNeeded []string
}

var requirementPatterns = []requirementPattern{
	{
		phrases:            []string{"small business", "sme"},
		reqType:            RequirementEligibility,
		description:        "Must qualify as a small business",
		mandatory:          true,
		validationCriteria: []string{"business_size is small or startup", "employee count within SBA limits"},
		documentationNeeded: []string{
			"SBA size certification or self-certification",
			"Employee headcount records",
		},
	},
	{
		phrases:            []string{"matching funds", "cost share"},
		reqType:            RequirementFinancial,
		description:        "Matching funds or cost-share contribution required",
		mandatory:          true,
		validationCriteria: []string{"annual revenue sufficient to cover match"},
		documentationNeeded: []string{
			"Financial statements",
			"Matching-funds commitment letter",
		},
	},
	{
		phrases:            []string{"business plan", "proposal"},
		reqType:            RequirementDocumentation,
		description:        "Detailed business plan or proposal required",
		mandatory:          true,
		validationCriteria: []string{"complete business profile", "written plan covering use of funds"},
		documentationNeeded: []string{
			"Business plan",
			"Project proposal",
		},
	},
	{
		phrases:            []string{"prototype", "technology"},
		reqType:            RequirementTechnical,
		description:        "Technical capability or prototype development expected",
		mandatory:          false,
		validationCriteria: []string{"documented technology stack or working prototype"},
		documentationNeeded: []string{
			"Technical capability statement",
		},
	},
	{
		phrases:            []string{"minority-owned", "women-owned"},
		reqType:            RequirementCertification,
		description:        "Ownership certification may strengthen eligibility",
		mandatory:          false,
		validationCriteria: []string{"current ownership certification on file"},
		documentationNeeded: []string{
			"Ownership certification documents",
		},
	},
}

// RequirementExtractor derives typed compliance requirements from grant
// description text. Extraction is cached per grant: if requirements
// already exist for a grant id they are returned unchanged
// (first-extraction-wins).
type RequirementExtractor struct {
	store RequirementStore
	log   logger.Logger
}

// NewRequirementExtractor creates a requirement extractor backed by the
// given store
func NewRequirementExtractor(store RequirementStore, log logger.Logger) *RequirementExtractor {
	return &RequirementExtractor{store: store, log: log}
}

// ExtractRequirements returns the compliance requirements for a grant,
// deriving them from the description on first call and serving the
// cached list afterwards. An empty description yields an empty list,
// never an error.
func (e *RequirementExtractor) ExtractRequirements(ctx context.Context, grantID uuid.UUID, description string) ([]ComplianceRequirement, error) {
	if e.store != nil {
		cached, err := e.store.GetByGrant(ctx, grantID)
		if err != nil {
			e.log.Warn("requirement cache lookup failed, re-extracting", "grant_id", grantID, "error", err)
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	requirements := e.Derive(grantID, description)

	if e.store != nil && len(requirements) > 0 {
		if err := e.store.SaveForGrant(ctx, grantID, requirements); err != nil {
			// Persistence is best-effort; the derived list is still valid
			e.log.Warn("failed to persist extracted requirements", "grant_id", grantID, "error", err)
		}
	}

	return requirements, nil
}

// Derive runs pure phrase matching over the description without
// touching the store
func (e *RequirementExtractor) Derive(grantID uuid.UUID, description string) []ComplianceRequirement {
	text := strings.ToLower(flattenHTML(description))
	if strings.TrimSpace(text) == "" {
		return []ComplianceRequirement{}
	}

	requirements := make([]ComplianceRequirement, 0, len(requirementPatterns))
	for _, pattern := range requirementPatterns {
		if !containsAny(text, pattern.phrases) {
			continue
		}
		requirements = append(requirements, ComplianceRequirement{
			ID:                  uuid.New(),
			GrantID:             grantID,
			Type:                pattern.reqType,
			Description:         pattern.description,
			Mandatory:           pattern.mandatory,
			ValidationCriteria:  append([]string(nil), pattern.validationCriteria...),
			DocumentationNeeded: append([]string(nil), pattern.documentationNeeded...),
			ConfidenceScore:     ExtractionConfidence,
		})
	}

	return requirements
}

// flattenHTML strips markup from ingested descriptions, which arrive as
// full HTML from the ingestion pipeline. Plain text passes through
// untouched.
func flattenHTML(description string) string {
	if !strings.Contains(description, "<") {
		return description
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return description
	}
	return doc.Text()
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
