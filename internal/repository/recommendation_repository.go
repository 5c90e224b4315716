package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/engine"
)

// recommendationRepository stores pipeline-produced recommendation
// snapshots
type recommendationRepository struct {
	db dbExecutor
}

// NewRecommendationRepository creates a recommendation repository
func NewRecommendationRepository(db dbExecutor) RecommendationRepository {
	return &recommendationRepository{db: db}
}

// ReplaceForProfile swaps the profile's stored recommendations for the
// freshly generated set
func (r *recommendationRepository) ReplaceForProfile(ctx context.Context, profileID uuid.UUID, recommendations []engine.Recommendation) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recommendations WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	generatedAt := time.Now()
	for _, rec := range recommendations {
		stored, err := NewStoredRecommendation(profileID, rec, generatedAt)
		if err != nil {
			return fmt.Errorf("failed to encode recommendation: %w", err)
		}

		_, err = r.db.ExecContext(ctx, `INSERT INTO recommendations
			(id, profile_id, grant_id, score, priority, payload, generated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			stored.ID, stored.ProfileID, stored.GrantID, stored.Score,
			stored.Priority, stored.Payload, stored.GeneratedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to store recommendation: %w", err)
		}
	}
	return nil
}

func (r *recommendationRepository) GetByProfile(ctx context.Context, profileID uuid.UUID) ([]StoredRecommendation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, profile_id, grant_id, score, priority, payload, generated_at
		FROM recommendations WHERE profile_id = $1 ORDER BY score DESC, generated_at`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var stored []StoredRecommendation
	for rows.Next() {
		var rec StoredRecommendation
		if err := rows.Scan(&rec.ID, &rec.ProfileID, &rec.GrantID, &rec.Score,
			&rec.Priority, &rec.Payload, &rec.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		stored = append(stored, rec)
	}
	return stored, rows.Err()
}
