package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/grantmatch/grant-match-api/internal/models"
)

// profileRepository implements ProfileRepository backed by postgres
type profileRepository struct {
	db dbExecutor
}

// NewProfileRepository creates a profile repository
func NewProfileRepository(db dbExecutor) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, user_id, company_name, industry, naics_codes, business_size,
	employee_count, annual_revenue, location, business_stage, description,
	focus_areas, certifications, technology_stack, target_markets,
	competitive_advantages, funding_needs, created_at, updated_at`

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BusinessProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM business_profiles WHERE id = $1`, profileColumns)
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *profileRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.BusinessProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM business_profiles WHERE user_id = $1`, profileColumns)
	return r.scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM business_profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *profileRepository) Create(ctx context.Context, profile *models.BusinessProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO business_profiles (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		profileColumns)

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.UserID, profile.CompanyName, profile.Industry,
		pq.Array(profile.NAICSCodes), profile.BusinessSize, profile.EmployeeCount,
		profile.AnnualRevenue, profile.Location, profile.BusinessStage,
		profile.Description, pq.Array(profile.FocusAreas), pq.Array(profile.Certifications),
		pq.Array(profile.TechnologyStack), pq.Array(profile.TargetMarkets),
		pq.Array(profile.CompetitiveAdvantages), profile.FundingNeeds,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.BusinessProfile) error {
	profile.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `UPDATE business_profiles SET
		company_name = $2, industry = $3, naics_codes = $4, business_size = $5,
		employee_count = $6, annual_revenue = $7, location = $8, business_stage = $9,
		description = $10, focus_areas = $11, certifications = $12,
		technology_stack = $13, target_markets = $14, competitive_advantages = $15,
		funding_needs = $16, updated_at = $17
		WHERE id = $1`,
		profile.ID, profile.CompanyName, profile.Industry, pq.Array(profile.NAICSCodes),
		profile.BusinessSize, profile.EmployeeCount, profile.AnnualRevenue,
		profile.Location, profile.BusinessStage, profile.Description,
		pq.Array(profile.FocusAreas), pq.Array(profile.Certifications),
		pq.Array(profile.TechnologyStack), pq.Array(profile.TargetMarkets),
		pq.Array(profile.CompetitiveAdvantages), profile.FundingNeeds, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepository) scanProfile(row *sql.Row) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	var stage sql.NullString

	err := row.Scan(
		&profile.ID, &profile.UserID, &profile.CompanyName, &profile.Industry,
		pq.Array(&profile.NAICSCodes), &profile.BusinessSize, &profile.EmployeeCount,
		&profile.AnnualRevenue, &profile.Location, &stage, &profile.Description,
		pq.Array(&profile.FocusAreas), pq.Array(&profile.Certifications),
		pq.Array(&profile.TechnologyStack), pq.Array(&profile.TargetMarkets),
		pq.Array(&profile.CompetitiveAdvantages), &profile.FundingNeeds,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	if stage.Valid {
		profile.BusinessStage = models.BusinessStage(stage.String)
	}
	return &profile, nil
}
