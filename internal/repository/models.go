package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/engine"
)

// StoredRecommendation is a recommendation snapshot row produced by the
// batch pipeline. Payload holds the full engine.Recommendation as JSON.
type StoredRecommendation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProfileID   uuid.UUID `json:"profile_id" db:"profile_id"`
	GrantID     uuid.UUID `json:"grant_id" db:"grant_id"`
	Score       int       `json:"score" db:"score"`
	Priority    string    `json:"priority" db:"priority"`
	Payload     string    `json:"payload" db:"payload"`
	GeneratedAt time.Time `json:"generated_at" db:"generated_at"`
}

// Recommendation unmarshals the stored payload
func (r *StoredRecommendation) Recommendation() (*engine.Recommendation, error) {
	var rec engine.Recommendation
	if err := json.Unmarshal([]byte(r.Payload), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// NewStoredRecommendation snapshots an engine recommendation for storage
func NewStoredRecommendation(profileID uuid.UUID, rec engine.Recommendation, generatedAt time.Time) (*StoredRecommendation, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return &StoredRecommendation{
		ID:          uuid.New(),
		ProfileID:   profileID,
		GrantID:     rec.GrantID,
		Score:       rec.Score,
		Priority:    string(rec.Priority),
		Payload:     string(payload),
		GeneratedAt: generatedAt,
	}, nil
}
