package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/grantmatch/grant-match-api/internal/models"
)

// statusWeight converts a compliance status into the credit it earns in
// the weighted aggregate
var statusWeight = map[ComplianceStatus]float64{
	StatusCompliant:    1.0,
	StatusPartial:      0.6,
	StatusNonCompliant: 0.2,
	StatusUnknown:      0.4,
}

// mandatoryMultiplier weights mandatory requirements above optional ones
const mandatoryMultiplier = 1.5

// taskHours estimates remediation effort per requirement type
var taskHours = map[RequirementType]int{
	RequirementEligibility:   4,
	RequirementDocumentation: 8,
	RequirementFinancial:     12,
	RequirementCertification: 16,
	RequirementTechnical:     20,
}

const hoursPerDocument = 2

// profileCoreFields is the divisor for the documentation completeness
// ratio
const profileCoreFields = 6

// ComplianceChecker evaluates extracted requirements against a business
// profile. It is pure computation and safe for concurrent use.
type ComplianceChecker struct{}

// NewComplianceChecker creates a compliance checker
func NewComplianceChecker() *ComplianceChecker {
	return &ComplianceChecker{}
}

// CheckCompliance evaluates every requirement and aggregates the results
// into a report. With zero requirements the report is trivially clean.
func (c *ComplianceChecker) CheckCompliance(profile *models.BusinessProfile, requirements []ComplianceRequirement) ComplianceReport {
	report := ComplianceReport{
		Checks:      make([]ComplianceCheck, 0, len(requirements)),
		ActionItems: []ActionItem{},
	}

	if len(requirements) == 0 {
		report.OverallCompliance = 100
		return report
	}

	var weightedSum, multiplierSum float64

	for _, req := range requirements {
		status, confidence := c.evaluate(profile, req)

		check := ComplianceCheck{
			Requirement: req,
			Status:      status,
			Confidence:  confidence,
		}
		if status == StatusNonCompliant || status == StatusPartial {
			check.Recommendations = remediation(req)
			report.ActionItems = append(report.ActionItems, actionItems(req)...)
			report.EstimatedPreparationTime += taskHours[req.Type]
		}
		report.Checks = append(report.Checks, check)

		multiplier := 1.0
		if req.Mandatory {
			multiplier = mandatoryMultiplier
		}
		weightedSum += statusWeight[status] * confidence * multiplier
		multiplierSum += multiplier
	}

	report.OverallCompliance = int(math.Round(100 * weightedSum / multiplierSum))
	return report
}

// evaluate dispatches to the per-type validator
func (c *ComplianceChecker) evaluate(profile *models.BusinessProfile, req ComplianceRequirement) (ComplianceStatus, float64) {
	switch req.Type {
	case RequirementEligibility:
		return c.checkEligibility(profile, req)
	case RequirementFinancial:
		return c.checkFinancial(profile, req)
	case RequirementDocumentation:
		return c.checkDocumentation(profile)
	case RequirementTechnical:
		return c.checkTechnical(profile)
	case RequirementCertification:
		return c.checkCertification(profile)
	default:
		return StatusUnknown, 0.3
	}
}

// checkEligibility resolves overlapping phrase rules most-specific-first:
// a "small business" mention decides the requirement outright, the
// broader "revenue" rule only applies when no size phrase is present.
func (c *ComplianceChecker) checkEligibility(profile *models.BusinessProfile, req ComplianceRequirement) (ComplianceStatus, float64) {
	desc := strings.ToLower(req.Description)

	if strings.Contains(desc, "small business") {
		if profile.BusinessSize == models.SizeSmall || profile.BusinessSize == models.SizeStartup {
			return StatusCompliant, 0.9
		}
		return StatusNonCompliant, 0.8
	}

	if strings.Contains(desc, "revenue") {
		if profile.HasRevenue() {
			return StatusCompliant, 0.7
		}
		return StatusUnknown, 0.3
	}

	return StatusUnknown, 0.3
}

func (c *ComplianceChecker) checkFinancial(profile *models.BusinessProfile, req ComplianceRequirement) (ComplianceStatus, float64) {
	desc := strings.ToLower(req.Description)
	if strings.Contains(desc, "matching") || strings.Contains(desc, "cost share") || strings.Contains(desc, "cost-share") {
		if profile.AnnualRevenue != nil && *profile.AnnualRevenue > 0 {
			return StatusPartial, 0.6
		}
		return StatusUnknown, 0.3
	}
	return StatusUnknown, 0.3
}

// checkDocumentation scores readiness from how complete the profile is
func (c *ComplianceChecker) checkDocumentation(profile *models.BusinessProfile) (ComplianceStatus, float64) {
	filled := 0
	if profile.CompanyName != "" {
		filled++
	}
	if profile.Industry != "" {
		filled++
	}
	if profile.BusinessSize != "" {
		filled++
	}
	if !profile.Location.IsZero() {
		filled++
	}
	if profile.Description != "" {
		filled++
	}
	if profile.FundingNeeds != "" {
		filled++
	}

	ratio := float64(filled) / profileCoreFields
	switch {
	case ratio > 0.8:
		return StatusCompliant, 0.7
	case ratio > 0.5:
		return StatusPartial, 0.6
	default:
		return StatusNonCompliant, 0.8
	}
}

func (c *ComplianceChecker) checkTechnical(profile *models.BusinessProfile) (ComplianceStatus, float64) {
	if profile.BusinessStage == models.StagePrototype || profile.BusinessStage == models.StageGrowth {
		return StatusCompliant, 0.7
	}
	if len(profile.TechnologyStack) > 0 {
		return StatusPartial, 0.6
	}
	return StatusUnknown, 0.4
}

func (c *ComplianceChecker) checkCertification(profile *models.BusinessProfile) (ComplianceStatus, float64) {
	if len(profile.Certifications) > 0 {
		return StatusCompliant, 0.8
	}
	return StatusNonCompliant, 0.6
}

// remediation builds the per-check recommendation strings
func remediation(req ComplianceRequirement) []string {
	recs := []string{fmt.Sprintf("Address requirement: %s", req.Description)}
	if len(req.DocumentationNeeded) > 0 {
		recs = append(recs, fmt.Sprintf("Gather supporting documentation: %s", strings.Join(req.DocumentationNeeded, ", ")))
	}
	return recs
}

// actionItems builds the remediation tasks for a failed or partial
// requirement
func actionItems(req ComplianceRequirement) []ActionItem {
	priority := PriorityMedium
	if req.Mandatory {
		priority = PriorityHigh
	}

	items := []ActionItem{{
		Description:    fmt.Sprintf("Resolve %s requirement: %s", req.Type, req.Description),
		Type:           req.Type,
		Priority:       priority,
		EstimatedHours: taskHours[req.Type],
	}}

	if len(req.DocumentationNeeded) > 0 {
		items = append(items, ActionItem{
			Description:    fmt.Sprintf("Prepare documentation: %s", strings.Join(req.DocumentationNeeded, ", ")),
			Type:           req.Type,
			Priority:       priority,
			EstimatedHours: hoursPerDocument * len(req.DocumentationNeeded),
		})
	}

	return items
}
