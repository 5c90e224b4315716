package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BusinessSize represents the size classification of a business
type BusinessSize string

const (
	SizeStartup BusinessSize = "startup"
	SizeSmall   BusinessSize = "small"
	SizeMedium  BusinessSize = "medium"
	SizeLarge   BusinessSize = "large"
)

// BusinessStage represents the maturity stage of a business
type BusinessStage string

const (
	StageIdea         BusinessStage = "idea"
	StagePrototype    BusinessStage = "prototype"
	StageEarlyRevenue BusinessStage = "early_revenue"
	StageGrowth       BusinessStage = "growth"
	StageMature       BusinessStage = "mature"
)

// SizeOrder is the ordinal scale used for size-compatibility scoring
var SizeOrder = []BusinessSize{SizeStartup, SizeSmall, SizeMedium, SizeLarge}

// ValidBusinessSize returns true if s is a known size value
func ValidBusinessSize(s string) bool {
	for _, size := range SizeOrder {
		if string(size) == s {
			return true
		}
	}
	return false
}

// ValidBusinessStage returns true if s is a known stage value
func ValidBusinessStage(s string) bool {
	switch BusinessStage(s) {
	case StageIdea, StagePrototype, StageEarlyRevenue, StageGrowth, StageMature:
		return true
	}
	return false
}

// Location represents where a business operates
type Location struct {
	City      string   `json:"city"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// IsZero returns true if no location fields are set
func (l Location) IsZero() bool {
	return l.City == "" && l.State == "" && l.Country == ""
}

// Value implements driver.Valuer for Location
func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for Location
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Location", value)
	}

	return json.Unmarshal(bytes, l)
}

// BusinessProfile represents a business seeking grant funding.
// BusinessSize and Industry should be present for scoring to be
// meaningful; every scorer degrades to a documented default when
// optional fields are absent.
type BusinessProfile struct {
	ID                    uuid.UUID          `json:"id" db:"id"`
	UserID                uuid.UUID          `json:"user_id" db:"user_id"`
	CompanyName           string             `json:"company_name" db:"company_name"`
	Industry              string             `json:"industry" db:"industry"`
	NAICSCodes            []string           `json:"naics_codes" db:"naics_codes"`
	BusinessSize          BusinessSize       `json:"business_size" db:"business_size"`
	EmployeeCount         *int               `json:"employee_count,omitempty" db:"employee_count"`
	AnnualRevenue         *float64           `json:"annual_revenue,omitempty" db:"annual_revenue"`
	Location              Location           `json:"location" db:"location"`
	BusinessStage         BusinessStage      `json:"business_stage,omitempty" db:"business_stage"`
	Description           string             `json:"description" db:"description"`
	FocusAreas            []string           `json:"focus_areas" db:"focus_areas"`
	Certifications        []string           `json:"certifications" db:"certifications"`
	TechnologyStack       []string           `json:"technology_stack" db:"technology_stack"`
	TargetMarkets         []string           `json:"target_markets" db:"target_markets"`
	CompetitiveAdvantages []string           `json:"competitive_advantages" db:"competitive_advantages"`
	FundingNeeds          string             `json:"funding_needs" db:"funding_needs"`
	PastGrantHistory      []GrantApplication `json:"past_grant_history,omitempty" db:"-"`
	CreatedAt             time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at" db:"updated_at"`
}

// HasRevenue returns true if annual revenue is recorded
func (p *BusinessProfile) HasRevenue() bool {
	return p.AnnualRevenue != nil
}

// ProfileForm represents the request body for creating or updating a profile
type ProfileForm struct {
	CompanyName           string   `json:"company_name" binding:"required"`
	Industry              string   `json:"industry" binding:"required"`
	NAICSCodes            []string `json:"naics_codes"`
	BusinessSize          string   `json:"business_size" binding:"required"`
	EmployeeCount         *int     `json:"employee_count"`
	AnnualRevenue         *float64 `json:"annual_revenue"`
	Location              Location `json:"location"`
	BusinessStage         string   `json:"business_stage"`
	Description           string   `json:"description"`
	FocusAreas            []string `json:"focus_areas"`
	Certifications        []string `json:"certifications"`
	TechnologyStack       []string `json:"technology_stack"`
	TargetMarkets         []string `json:"target_markets"`
	CompetitiveAdvantages []string `json:"competitive_advantages"`
	FundingNeeds          string   `json:"funding_needs"`
}

// Validate normalizes enum fields and rejects unknown values
func (f *ProfileForm) Validate() error {
	if !ValidBusinessSize(f.BusinessSize) {
		return fmt.Errorf("invalid business_size %q", f.BusinessSize)
	}
	if f.BusinessStage != "" && !ValidBusinessStage(f.BusinessStage) {
		return fmt.Errorf("invalid business_stage %q", f.BusinessStage)
	}
	return nil
}
