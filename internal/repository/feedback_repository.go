package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/models"
)

// feedbackRepository persists user feedback and evaluation artifacts
type feedbackRepository struct {
	db dbExecutor
}

// NewFeedbackRepository creates a feedback repository
func NewFeedbackRepository(db dbExecutor) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Append(ctx context.Context, batch []models.UserFeedback) error {
	for i := range batch {
		event := &batch[i]
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		if event.CreatedAt.IsZero() {
			event.CreatedAt = time.Now()
		}

		_, err := r.db.ExecContext(ctx, `INSERT INTO user_feedback
			(id, user_id, grant_id, ai_score, user_rating, feedback_type, comment, outcome, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			event.ID, event.UserID, event.GrantID, event.AIScore, event.UserRating,
			event.FeedbackType, event.Comment, event.Outcome, event.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append feedback: %w", err)
		}
	}
	return nil
}

func (r *feedbackRepository) GetSince(ctx context.Context, since time.Time) ([]models.UserFeedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, grant_id, ai_score, user_rating,
		feedback_type, comment, outcome, created_at
		FROM user_feedback WHERE created_at >= $1 ORDER BY created_at`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var events []models.UserFeedback
	for rows.Next() {
		var event models.UserFeedback
		if err := rows.Scan(&event.ID, &event.UserID, &event.GrantID, &event.AIScore,
			&event.UserRating, &event.FeedbackType, &event.Comment, &event.Outcome,
			&event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *feedbackRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_feedback`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

func (r *feedbackRepository) SaveMetrics(ctx context.Context, metrics *models.ModelMetrics) error {
	if metrics.ID == uuid.Nil {
		metrics.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO model_metrics
		(id, accuracy, precision_score, recall, f1_score, user_satisfaction, sample_size, window_days, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		metrics.ID, metrics.Accuracy, metrics.Precision, metrics.Recall,
		metrics.F1Score, metrics.UserSatisfaction, metrics.SampleSize,
		metrics.WindowDays, metrics.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}

func (r *feedbackRepository) RecordRetrainSignal(ctx context.Context, cumulativeCount int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO retrain_events (id, cumulative_count, created_at)
		VALUES ($1, $2, NOW())`, uuid.New(), cumulativeCount)
	if err != nil {
		return fmt.Errorf("failed to record retrain signal: %w", err)
	}
	return nil
}
