package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GrantOpportunity represents a normalized grant listing. Records are
// produced by the ingestion pipeline and are read-only to the scoring
// engine. Amount is a display string ("$250,000", "up to $1.5M") and
// needs numeric parsing before use.
type GrantOpportunity struct {
	ID                       uuid.UUID  `json:"id" db:"id"`
	Title                    string     `json:"title" db:"title"`
	Agency                   string     `json:"agency" db:"agency"`
	Description              string     `json:"description" db:"description"`
	Amount                   string     `json:"amount" db:"amount"`
	Category                 string     `json:"category" db:"category"`
	IndustryTags             []string   `json:"industry_tags" db:"industry_tags"`
	NAICSCodes               []string   `json:"naics_codes" db:"naics_codes"`
	BusinessSizeRequirements []string   `json:"business_size_requirements" db:"business_size_requirements"`
	LocationRestrictions     []string   `json:"location_restrictions" db:"location_restrictions"`
	Deadline                 *time.Time `json:"deadline,omitempty" db:"deadline"`
	ApplicationURL           string     `json:"application_url" db:"application_url"`
	CreatedAt                time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at" db:"updated_at"`
}

var dollarPattern = regexp.MustCompile(`\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*([kKmM])?`)

// ParseDollarAmount extracts the first dollar figure from freeform text.
// Handles comma grouping and k/M suffixes. Returns false when no figure
// is present so callers can fall back to a neutral score.
func ParseDollarAmount(text string) (float64, bool) {
	match := dollarPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	raw := strings.ReplaceAll(match[1], ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	switch strings.ToLower(match[2]) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}

	return value, true
}

// ParsedAmount returns the grant's numeric amount, false if unparseable
func (g *GrantOpportunity) ParsedAmount() (float64, bool) {
	return ParseDollarAmount(g.Amount)
}

// ApplicationStatus represents the outcome state of a grant application
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAwarded   ApplicationStatus = "awarded"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// Decided reports whether the application reached a final outcome
func (s ApplicationStatus) Decided() bool {
	return s == ApplicationAwarded || s == ApplicationRejected
}

// GrantApplication records a prior grant application for a business.
// These rows back the historical-success sub-score.
type GrantApplication struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	ProfileID   uuid.UUID         `json:"profile_id" db:"profile_id"`
	GrantID     uuid.UUID         `json:"grant_id" db:"grant_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	Amount      *float64          `json:"amount,omitempty" db:"amount"`
	SubmittedAt time.Time         `json:"submitted_at" db:"submitted_at"`
	DecidedAt   *time.Time        `json:"decided_at,omitempty" db:"decided_at"`
}

// GrantFilters defines filters for querying grants
type GrantFilters struct {
	Category      string
	Agency        string
	IndustryTag   string
	DeadlineAfter *time.Time
	Limit         int
	Offset        int
}
