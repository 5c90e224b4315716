package feedback

import (
	"context"
	"time"

	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/models"
)

// Store is the persistence collaborator for feedback events, metric
// snapshots and the retrain signal.
type Store interface {
	Append(ctx context.Context, batch []models.UserFeedback) error
	GetSince(ctx context.Context, since time.Time) ([]models.UserFeedback, error)
	Count(ctx context.Context) (int, error)
	SaveMetrics(ctx context.Context, metrics *models.ModelMetrics) error
	RecordRetrainSignal(ctx context.Context, cumulativeCount int) error
}

// Thresholds for metric computation
const (
	// positiveRating marks feedback as a positive example
	positiveRating = 4

	// highScoreThreshold marks an engine score as a positive prediction
	highScoreThreshold = 0.7

	// RetrainThreshold is the cumulative feedback count at which a
	// retraining signal is recorded. Recording is the entire effect; no
	// retraining occurs.
	RetrainThreshold = 100

	// DefaultWindowDays is the evaluation window when callers pass zero
	DefaultWindowDays = 30
)

// Default metrics returned when the evaluation window holds no feedback
const (
	DefaultAccuracy         = 0.75
	DefaultPrecision        = 0.70
	DefaultRecall           = 0.65
	DefaultF1Score          = 0.67
	DefaultUserSatisfaction = 0.72
)

// Aggregator records user feedback and computes rolling evaluation
// metrics from it. Purely observational; scoring weights never change.
type Aggregator struct {
	store Store
	log   logger.Logger
}

// NewAggregator creates a feedback aggregator backed by the given store
func NewAggregator(store Store, log logger.Logger) *Aggregator {
	return &Aggregator{store: store, log: log}
}

// Record appends a feedback batch and fires the retrain signal when the
// cumulative count crosses the threshold
func (a *Aggregator) Record(ctx context.Context, batch []models.UserFeedback) error {
	if len(batch) == 0 {
		return nil
	}

	for i := range batch {
		if err := batch[i].Validate(); err != nil {
			return err
		}
	}

	before, countErr := a.store.Count(ctx)

	if err := a.store.Append(ctx, batch); err != nil {
		return err
	}

	if countErr != nil {
		a.log.Warn("feedback count unavailable, skipping retrain check", "error", countErr)
		return nil
	}

	after := before + len(batch)
	if before < RetrainThreshold && after >= RetrainThreshold {
		a.log.Info("retrain threshold crossed", "cumulative_count", after)
		if err := a.store.RecordRetrainSignal(ctx, after); err != nil {
			// Signal recording is best-effort
			a.log.Warn("failed to record retrain signal", "error", err)
		}
	}

	return nil
}

// EvaluateMetrics computes accuracy, precision, recall, F1 and
// satisfaction over the feedback window. An empty window returns fixed
// defaults rather than NaN.
func (a *Aggregator) EvaluateMetrics(ctx context.Context, windowDays int) (*models.ModelMetrics, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	events, err := a.store.GetSince(ctx, since)
	if err != nil {
		return nil, err
	}

	metrics := computeMetrics(events)
	metrics.WindowDays = windowDays
	metrics.ComputedAt = time.Now()

	if err := a.store.SaveMetrics(ctx, metrics); err != nil {
		a.log.Warn("failed to persist metrics snapshot", "error", err)
	}

	return metrics, nil
}

func computeMetrics(events []models.UserFeedback) *models.ModelMetrics {
	if len(events) == 0 {
		return &models.ModelMetrics{
			Accuracy:         DefaultAccuracy,
			Precision:        DefaultPrecision,
			Recall:           DefaultRecall,
			F1Score:          DefaultF1Score,
			UserSatisfaction: DefaultUserSatisfaction,
		}
	}

	total := len(events)
	positives := 0
	predictedPositives := 0
	truePositives := 0
	ratingSum := 0

	for _, event := range events {
		ratingSum += event.UserRating
		if event.UserRating >= positiveRating {
			positives++
		}
		if event.AIScore >= highScoreThreshold {
			predictedPositives++
			if event.UserRating >= positiveRating {
				truePositives++
			}
		}
	}

	accuracy := float64(positives) / float64(total)

	precision := 0.0
	if predictedPositives > 0 {
		precision = float64(truePositives) / float64(predictedPositives)
	}

	recall := float64(positives) / float64(total)

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return &models.ModelMetrics{
		Accuracy:         accuracy,
		Precision:        precision,
		Recall:           recall,
		F1Score:          f1,
		UserSatisfaction: float64(ratingSum) / float64(total) / 5,
		SampleSize:       total,
	}
}
