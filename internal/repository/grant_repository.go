package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/grantmatch/grant-match-api/internal/models"
)

// grantRepository implements GrantRepository backed by postgres
type grantRepository struct {
	db dbExecutor
}

// NewGrantRepository creates a grant repository
func NewGrantRepository(db dbExecutor) GrantRepository {
	return &grantRepository{db: db}
}

const grantColumns = `id, title, agency, description, amount, category, industry_tags,
	naics_codes, business_size_requirements, location_restrictions, deadline,
	application_url, created_at, updated_at`

func (r *grantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GrantOpportunity, error) {
	query := fmt.Sprintf(`SELECT %s FROM grants WHERE id = $1`, grantColumns)

	var grant models.GrantOpportunity
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&grant.ID, &grant.Title, &grant.Agency, &grant.Description, &grant.Amount,
		&grant.Category, pq.Array(&grant.IndustryTags), pq.Array(&grant.NAICSCodes),
		pq.Array(&grant.BusinessSizeRequirements), pq.Array(&grant.LocationRestrictions),
		&grant.Deadline, &grant.ApplicationURL, &grant.CreatedAt, &grant.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan grant: %w", err)
	}
	return &grant, nil
}

func (r *grantRepository) GetAll(ctx context.Context, filters models.GrantFilters) ([]models.GrantOpportunity, error) {
	var conditions []string
	var args []interface{}

	if filters.Category != "" {
		args = append(args, filters.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filters.Agency != "" {
		args = append(args, filters.Agency)
		conditions = append(conditions, fmt.Sprintf("agency = $%d", len(args)))
	}
	if filters.IndustryTag != "" {
		args = append(args, filters.IndustryTag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(industry_tags)", len(args)))
	}
	if filters.DeadlineAfter != nil {
		args = append(args, *filters.DeadlineAfter)
		conditions = append(conditions, fmt.Sprintf("(deadline IS NULL OR deadline > $%d)", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM grants`, grantColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY deadline NULLS LAST, created_at DESC"

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grants: %w", err)
	}
	defer rows.Close()

	var grants []models.GrantOpportunity
	for rows.Next() {
		var grant models.GrantOpportunity
		if err := rows.Scan(
			&grant.ID, &grant.Title, &grant.Agency, &grant.Description, &grant.Amount,
			&grant.Category, pq.Array(&grant.IndustryTags), pq.Array(&grant.NAICSCodes),
			pq.Array(&grant.BusinessSizeRequirements), pq.Array(&grant.LocationRestrictions),
			&grant.Deadline, &grant.ApplicationURL, &grant.CreatedAt, &grant.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

func (r *grantRepository) Create(ctx context.Context, grant *models.GrantOpportunity) error {
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	now := time.Now()
	grant.CreatedAt = now
	grant.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO grants (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`, grantColumns)

	_, err := r.db.ExecContext(ctx, query,
		grant.ID, grant.Title, grant.Agency, grant.Description, grant.Amount,
		grant.Category, pq.Array(grant.IndustryTags), pq.Array(grant.NAICSCodes),
		pq.Array(grant.BusinessSizeRequirements), pq.Array(grant.LocationRestrictions),
		grant.Deadline, grant.ApplicationURL, grant.CreatedAt, grant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create grant: %w", err)
	}
	return nil
}
