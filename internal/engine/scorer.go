package engine

import (
	"context"
	"math"
	"strings"

	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
)

// CompatibilityScorer computes the six-factor compatibility score for a
// profile/grant pair. All collaborator lookups are fail-open: a data gap
// resolves to the documented default instead of failing the score.
type CompatibilityScorer struct {
	extractor *RequirementExtractor
	checker   *ComplianceChecker
	outcomes  OutcomeStore
	log       logger.Logger
}

// NewCompatibilityScorer creates a scorer with its collaborators
func NewCompatibilityScorer(extractor *RequirementExtractor, checker *ComplianceChecker, outcomes OutcomeStore, log logger.Logger) *CompatibilityScorer {
	return &CompatibilityScorer{
		extractor: extractor,
		checker:   checker,
		outcomes:  outcomes,
		log:       log,
	}
}

// AnalyzeCompatibility scores one grant against one profile. It always
// returns a usable score; missing inputs degrade to neutral defaults.
func (s *CompatibilityScorer) AnalyzeCompatibility(ctx context.Context, profile *models.BusinessProfile, grant *models.GrantOpportunity) *CompatibilityScore {
	breakdown := ScoreBreakdown{
		IndustryMatch:          s.scoreIndustryMatch(profile, grant),
		SizeCompatibility:      s.scoreSizeCompatibility(profile, grant),
		GeographicFit:          s.scoreGeographicFit(profile, grant),
		HistoricalSuccess:      s.scoreHistoricalSuccess(ctx, profile),
		RequirementsCompliance: s.scoreRequirementsCompliance(ctx, profile, grant),
		FundingAlignment:       s.scoreFundingAlignment(profile, grant),
	}

	overall := float64(breakdown.IndustryMatch)*WeightIndustry +
		float64(breakdown.SizeCompatibility)*WeightSize +
		float64(breakdown.GeographicFit)*WeightGeography +
		float64(breakdown.HistoricalSuccess)*WeightHistorical +
		float64(breakdown.RequirementsCompliance)*WeightCompliance +
		float64(breakdown.FundingAlignment)*WeightFunding

	score := &CompatibilityScore{
		GrantID:   grant.ID,
		Overall:   clampScore(int(math.Round(overall))),
		Breakdown: breakdown,
	}
	s.deriveInsights(score)

	return score
}

// CheckCompliance extracts (or fetches cached) requirements for the
// grant and runs the full compliance evaluation
func (s *CompatibilityScorer) CheckCompliance(ctx context.Context, profile *models.BusinessProfile, grant *models.GrantOpportunity) ComplianceReport {
	requirements, err := s.extractor.ExtractRequirements(ctx, grant.ID, grant.Description)
	if err != nil {
		s.log.Warn("requirement extraction failed, reporting empty checklist", "grant_id", grant.ID, "error", err)
		requirements = nil
	}
	return s.checker.CheckCompliance(profile, requirements)
}

// scoreIndustryMatch combines direct industry overlap (0.4), NAICS code
// overlap (0.3) and focus-area mentions (0.3), scaled to 0-100
func (s *CompatibilityScorer) scoreIndustryMatch(profile *models.BusinessProfile, grant *models.GrantOpportunity) int {
	total := 0.0

	industry := strings.ToLower(strings.TrimSpace(profile.Industry))
	if industry != "" {
		for _, tag := range grant.IndustryTags {
			t := strings.ToLower(strings.TrimSpace(tag))
			if t == "" {
				continue
			}
			if strings.Contains(industry, t) || strings.Contains(t, industry) {
				total += 0.4
				break
			}
		}
	}

	if len(profile.NAICSCodes) > 0 && len(grant.NAICSCodes) > 0 {
		grantCodes := make(map[string]struct{}, len(grant.NAICSCodes))
		for _, code := range grant.NAICSCodes {
			grantCodes[code] = struct{}{}
		}
		matched := 0
		for _, code := range profile.NAICSCodes {
			if _, ok := grantCodes[code]; ok {
				matched++
			}
		}
		total += 0.3 * float64(matched) / float64(len(profile.NAICSCodes))
	}

	if len(profile.FocusAreas) > 0 {
		haystack := strings.ToLower(grant.Description + " " + strings.Join(grant.IndustryTags, " "))
		found := 0
		for _, area := range profile.FocusAreas {
			if area != "" && strings.Contains(haystack, strings.ToLower(area)) {
				found++
			}
		}
		total += 0.3 * float64(found) / float64(len(profile.FocusAreas))
	}

	return clampScore(int(math.Round(total * 100)))
}

// scoreSizeCompatibility scores direct and near-miss matches against the
// grant's size requirements on the startup..large ordinal scale
func (s *CompatibilityScorer) scoreSizeCompatibility(profile *models.BusinessProfile, grant *models.GrantOpportunity) int {
	if len(grant.BusinessSizeRequirements) == 0 {
		return NoSizeRestrictionScore
	}

	profileIdx := sizeIndex(profile.BusinessSize)
	adjacent := false
	for _, required := range grant.BusinessSizeRequirements {
		req := models.BusinessSize(strings.ToLower(strings.TrimSpace(required)))
		if req == profile.BusinessSize && profile.BusinessSize != "" {
			return 100
		}
		if profileIdx >= 0 {
			if reqIdx := sizeIndex(req); reqIdx >= 0 && abs(profileIdx-reqIdx) == 1 {
				adjacent = true
			}
		}
	}

	if adjacent {
		return AdjacentSizeScore
	}
	return SizeMismatchScore
}

func sizeIndex(size models.BusinessSize) int {
	for i, s := range models.SizeOrder {
		if s == size {
			return i
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// scoreGeographicFit checks the profile's state against the grant's
// location restrictions
func (s *CompatibilityScorer) scoreGeographicFit(profile *models.BusinessProfile, grant *models.GrantOpportunity) int {
	if len(grant.LocationRestrictions) == 0 {
		return NoLocationRestrictionScore
	}

	state := strings.ToLower(strings.TrimSpace(profile.Location.State))
	national := false
	for _, restriction := range grant.LocationRestrictions {
		r := strings.ToLower(restriction)
		if state != "" && strings.Contains(r, state) {
			return 100
		}
		if strings.Contains(r, "national") || strings.Contains(r, "usa") || strings.Contains(r, "united states") {
			national = true
		}
	}

	if national {
		return NationalEligibilityScore
	}
	return OutOfRegionScore
}

// scoreHistoricalSuccess derives the win rate over decided past
// applications. Lookup failure or no history resolves to the neutral
// default so one profile's data gap never blocks scoring.
func (s *CompatibilityScorer) scoreHistoricalSuccess(ctx context.Context, profile *models.BusinessProfile) int {
	if s.outcomes == nil {
		return DefaultHistoricalScore
	}

	outcomes, err := s.outcomes.GetOutcomes(ctx, profile.ID)
	if err != nil {
		s.log.Warn("historical outcome lookup failed, using default", "profile_id", profile.ID, "error", err)
		return DefaultHistoricalScore
	}

	decided, awarded := 0, 0
	for _, outcome := range outcomes {
		if outcome.Status.Decided() {
			decided++
			if outcome.Status == models.ApplicationAwarded {
				awarded++
			}
		}
	}
	if decided == 0 {
		return DefaultHistoricalScore
	}

	return clampScore(int(math.Round(100 * float64(awarded) / float64(decided))))
}

// scoreRequirementsCompliance runs a lightweight met/unmet pass over the
// extracted requirements. Only the eligibility and financial rules are
// evaluated directly; other types earn flat partial credit.
func (s *CompatibilityScorer) scoreRequirementsCompliance(ctx context.Context, profile *models.BusinessProfile, grant *models.GrantOpportunity) int {
	requirements, err := s.extractor.ExtractRequirements(ctx, grant.ID, grant.Description)
	if err != nil {
		s.log.Warn("requirement lookup failed, using default compliance score", "grant_id", grant.ID, "error", err)
		return DefaultComplianceScore
	}
	if len(requirements) == 0 {
		return CleanComplianceScore
	}

	met := 0.0
	for _, req := range requirements {
		desc := strings.ToLower(req.Description)
		switch req.Type {
		case RequirementEligibility:
			if strings.Contains(desc, "small business") &&
				(profile.BusinessSize == models.SizeSmall || profile.BusinessSize == models.SizeStartup) {
				met += 1.0
			}
		case RequirementFinancial:
			if strings.Contains(desc, "revenue") && profile.HasRevenue() {
				met += 1.0
			}
		default:
			met += FlatPartialCredit
		}
	}

	return clampScore(int(math.Round(100 * met / float64(len(requirements)))))
}

// scoreFundingAlignment compares the grant award against the profile's
// stated need with a symmetric ratio, so the score falls off whether the
// grant is too small or too large
func (s *CompatibilityScorer) scoreFundingAlignment(profile *models.BusinessProfile, grant *models.GrantOpportunity) int {
	grantAmount, ok := grant.ParsedAmount()
	if !ok {
		return UnknownAmountFundingScore
	}

	needed, ok := models.ParseDollarAmount(profile.FundingNeeds)
	if !ok {
		return UnstatedNeedFundingScore
	}

	ratio := math.Min(grantAmount/needed, needed/grantAmount)
	score := int(math.Round(100 * ratio))
	if score < FundingAlignmentFloor {
		score = FundingAlignmentFloor
	}
	return clampScore(score)
}

// deriveInsights fills in threshold-driven strengths, concerns and
// recommendations. The two closing recommendations are always appended.
func (s *CompatibilityScorer) deriveInsights(score *CompatibilityScore) {
	b := score.Breakdown

	if b.IndustryMatch > 80 {
		score.Strengths = append(score.Strengths, "Strong industry alignment with the grant's focus")
	}
	if b.SizeCompatibility > 90 {
		score.Strengths = append(score.Strengths, "Business size matches the grant's eligibility criteria")
	}
	if b.GeographicFit > 90 {
		score.Strengths = append(score.Strengths, "Located within the grant's eligible region")
	}
	if b.HistoricalSuccess > 80 {
		score.Strengths = append(score.Strengths, "Strong track record on past grant applications")
	}
	if b.RequirementsCompliance > 80 {
		score.Strengths = append(score.Strengths, "Profile already satisfies most grant requirements")
	}
	if b.FundingAlignment > 80 {
		score.Strengths = append(score.Strengths, "Award size closely matches the stated funding needs")
	}

	if b.IndustryMatch < 50 {
		score.Concerns = append(score.Concerns, "Limited overlap between the business's industry and the grant's focus")
	}
	if b.SizeCompatibility < 60 {
		score.Concerns = append(score.Concerns, "Business size may not meet the grant's eligibility criteria")
	}
	if b.GeographicFit < 50 {
		score.Concerns = append(score.Concerns, "Location falls outside the grant's restricted regions")
	}
	if b.HistoricalSuccess < 50 {
		score.Concerns = append(score.Concerns, "Past application outcomes suggest elevated risk")
	}
	if b.RequirementsCompliance < 60 {
		score.Concerns = append(score.Concerns, "Several grant requirements appear unmet")
	}
	if b.FundingAlignment < 50 {
		score.Concerns = append(score.Concerns, "Award size is far from the stated funding needs")
	}

	if b.RequirementsCompliance < 70 {
		score.Recommendations = append(score.Recommendations, "Close the outstanding compliance gaps before applying")
	}
	if b.IndustryMatch < 60 {
		score.Recommendations = append(score.Recommendations, "Emphasize industry-relevant experience and focus areas in the application")
	}
	if b.FundingAlignment < 60 {
		score.Recommendations = append(score.Recommendations, "Revisit the funding request to better match the award size")
	}

	score.Recommendations = append(score.Recommendations,
		"Develop a detailed proposal tailored to the grant's objectives",
		"Prepare supporting documentation well before the deadline",
	)
}
