package services

import (
	"context"

	"github.com/grantmatch/grant-match-api/internal/feedback"
	"github.com/grantmatch/grant-match-api/internal/models"
)

// feedbackServiceImpl implements FeedbackService
type feedbackServiceImpl struct {
	aggregator *feedback.Aggregator
}

func newFeedbackService(aggregator *feedback.Aggregator) FeedbackService {
	return &feedbackServiceImpl{aggregator: aggregator}
}

// Submit records a single feedback event
func (s *feedbackServiceImpl) Submit(ctx context.Context, event *models.UserFeedback) error {
	return s.aggregator.Record(ctx, []models.UserFeedback{*event})
}

// SubmitBatch records a batch of feedback events atomically
func (s *feedbackServiceImpl) SubmitBatch(ctx context.Context, batch []models.UserFeedback) error {
	return s.aggregator.Record(ctx, batch)
}

// Metrics evaluates model quality over the trailing window
func (s *feedbackServiceImpl) Metrics(ctx context.Context, windowDays int) (*models.ModelMetrics, error) {
	return s.aggregator.EvaluateMetrics(ctx, windowDays)
}
