package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeedbackType categorizes what aspect of a recommendation the user rated
type FeedbackType string

const (
	FeedbackRelevance    FeedbackType = "relevance"
	FeedbackAccuracy     FeedbackType = "accuracy"
	FeedbackCompleteness FeedbackType = "completeness"
	FeedbackUsefulness   FeedbackType = "usefulness"
)

// ValidFeedbackType returns true if t is a known feedback type
func ValidFeedbackType(t string) bool {
	switch FeedbackType(t) {
	case FeedbackRelevance, FeedbackAccuracy, FeedbackCompleteness, FeedbackUsefulness:
		return true
	}
	return false
}

// UserFeedback is an append-only event recording how a user rated a
// recommendation the engine produced.
type UserFeedback struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	GrantID      uuid.UUID    `json:"grant_id" db:"grant_id"`
	AIScore      float64      `json:"ai_score" db:"ai_score"`
	UserRating   int          `json:"user_rating" db:"user_rating"`
	FeedbackType FeedbackType `json:"feedback_type" db:"feedback_type"`
	Comment      string       `json:"comment,omitempty" db:"comment"`
	Outcome      string       `json:"outcome,omitempty" db:"outcome"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Validate rejects malformed feedback before it is recorded
func (f *UserFeedback) Validate() error {
	if f.UserRating < 1 || f.UserRating > 5 {
		return fmt.Errorf("user_rating must be 1-5, got %d", f.UserRating)
	}
	if !ValidFeedbackType(string(f.FeedbackType)) {
		return fmt.Errorf("invalid feedback_type %q", f.FeedbackType)
	}
	return nil
}

// ModelMetrics is a rolling evaluation snapshot computed from recent
// user feedback. Purely observational; it does not feed back into
// scoring weights.
type ModelMetrics struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Accuracy         float64   `json:"accuracy" db:"accuracy"`
	Precision        float64   `json:"precision" db:"precision"`
	Recall           float64   `json:"recall" db:"recall"`
	F1Score          float64   `json:"f1_score" db:"f1_score"`
	UserSatisfaction float64   `json:"user_satisfaction" db:"user_satisfaction"`
	SampleSize       int       `json:"sample_size" db:"sample_size"`
	WindowDays       int       `json:"window_days" db:"window_days"`
	ComputedAt       time.Time `json:"computed_at" db:"computed_at"`
}
