package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/grantmatch/grant-match-api/internal/engine"
)

// requirementRepository persists extracted requirements per grant
type requirementRepository struct {
	db dbExecutor
}

// NewRequirementRepository creates a requirement repository
func NewRequirementRepository(db dbExecutor) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) GetByGrant(ctx context.Context, grantID uuid.UUID) ([]engine.ComplianceRequirement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, grant_id, type, description, mandatory,
		validation_criteria, documentation_needed, confidence_score
		FROM grant_requirements WHERE grant_id = $1 ORDER BY created_at, id`, grantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query requirements: %w", err)
	}
	defer rows.Close()

	var requirements []engine.ComplianceRequirement
	for rows.Next() {
		var req engine.ComplianceRequirement
		if err := rows.Scan(
			&req.ID, &req.GrantID, &req.Type, &req.Description, &req.Mandatory,
			pq.Array(&req.ValidationCriteria), pq.Array(&req.DocumentationNeeded),
			&req.ConfidenceScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		requirements = append(requirements, req)
	}
	return requirements, rows.Err()
}

// SaveForGrant inserts the extracted requirements, ignoring the write if
// another extraction won the race (first-extraction-wins)
func (r *requirementRepository) SaveForGrant(ctx context.Context, grantID uuid.UUID, requirements []engine.ComplianceRequirement) error {
	for _, req := range requirements {
		_, err := r.db.ExecContext(ctx, `INSERT INTO grant_requirements
			(id, grant_id, type, description, mandatory, validation_criteria, documentation_needed, confidence_score, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			ON CONFLICT (grant_id, type) DO NOTHING`,
			req.ID, grantID, req.Type, req.Description, req.Mandatory,
			pq.Array(req.ValidationCriteria), pq.Array(req.DocumentationNeeded),
			req.ConfidenceScore,
		)
		if err != nil {
			return fmt.Errorf("failed to save requirement: %w", err)
		}
	}
	return nil
}
