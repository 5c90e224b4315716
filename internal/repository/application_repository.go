package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/models"
)

// applicationRepository reads and writes prior application outcomes
type applicationRepository struct {
	db dbExecutor
}

// NewApplicationRepository creates an application repository
func NewApplicationRepository(db dbExecutor) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) GetByProfile(ctx context.Context, profileID uuid.UUID) ([]models.GrantApplication, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, profile_id, grant_id, status, amount, submitted_at, decided_at
		FROM grant_applications WHERE profile_id = $1 ORDER BY submitted_at`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var applications []models.GrantApplication
	for rows.Next() {
		var app models.GrantApplication
		if err := rows.Scan(&app.ID, &app.ProfileID, &app.GrantID, &app.Status,
			&app.Amount, &app.SubmittedAt, &app.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}

func (r *applicationRepository) Create(ctx context.Context, application *models.GrantApplication) error {
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	if application.SubmittedAt.IsZero() {
		application.SubmittedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO grant_applications
		(id, profile_id, grant_id, status, amount, submitted_at, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		application.ID, application.ProfileID, application.GrantID,
		application.Status, application.Amount, application.SubmittedAt, application.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}
