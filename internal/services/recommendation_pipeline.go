package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/repository"
)

// RecommendationPipeline periodically regenerates stored recommendation
// snapshots for every business profile
type RecommendationPipeline struct {
	db        *sql.DB
	service   RecommendationService
	profiles  repository.ProfileRepository
	log       logger.Logger
	isRunning bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
}

// NewRecommendationPipeline creates a new batch recommendation pipeline
func NewRecommendationPipeline(db *sql.DB, svcs *Services, log logger.Logger) *RecommendationPipeline {
	return &RecommendationPipeline{
		db:       db,
		service:  svcs.Recommendation,
		profiles: repository.NewRepositories(db).Profile,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// GetDB returns the database connection for health checks
func (p *RecommendationPipeline) GetDB() *sql.DB {
	return p.db
}

// PipelineConfig contains configuration for the recommendation pipeline
type PipelineConfig struct {
	BatchSize     int           `json:"batch_size"`
	Interval      time.Duration `json:"interval"`
	MaxConcurrent int           `json:"max_concurrent"`
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BatchSize:     50,
		Interval:      time.Hour,
		MaxConcurrent: 5,
	}
}

// Start begins the automated recommendation pipeline
func (p *RecommendationPipeline) Start(config PipelineConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("pipeline is already running")
	}

	p.isRunning = true
	p.stopChan = make(chan struct{})

	p.wg.Add(1)
	go p.run(config)

	p.log.Info("recommendation pipeline started",
		"batch_size", config.BatchSize,
		"interval", config.Interval,
		"max_concurrent", config.MaxConcurrent)
	return nil
}

// Stop gracefully stops the pipeline
func (p *RecommendationPipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return fmt.Errorf("pipeline is not running")
	}

	close(p.stopChan)
	p.wg.Wait()
	p.isRunning = false

	p.log.Info("recommendation pipeline stopped")
	return nil
}

// IsRunning returns whether the pipeline is currently running
func (p *RecommendationPipeline) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// RunOnce executes a single refresh cycle manually
func (p *RecommendationPipeline) RunOnce(ctx context.Context, config PipelineConfig) (*PipelineStats, error) {
	return p.executeCycle(ctx, config)
}

func (p *RecommendationPipeline) run(config PipelineConfig) {
	defer p.wg.Done()

	ticker := time.NewTicker(config.Interval)
	defer ticker.Stop()

	ctx := context.Background()
	if stats, err := p.executeCycle(ctx, config); err != nil {
		p.log.Error("initial refresh cycle failed", "error", err)
	} else {
		p.log.Info("initial refresh cycle completed", "summary", stats.Summary())
	}

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			if stats, err := p.executeCycle(ctx, config); err != nil {
				p.log.Error("refresh cycle failed", "error", err)
			} else {
				p.log.Info("refresh cycle completed", "summary", stats.Summary())
			}
		}
	}
}

// executeCycle regenerates stored recommendations for every profile,
// processing batches concurrently
func (p *RecommendationPipeline) executeCycle(ctx context.Context, config PipelineConfig) (*PipelineStats, error) {
	stats := &PipelineStats{
		StartTime: time.Now(),
		BatchSize: config.BatchSize,
	}

	profileIDs, err := p.profiles.GetAllIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list profiles: %w", err)
	}

	if len(profileIDs) == 0 {
		stats.EndTime = time.Now()
		return stats, nil
	}

	stats.ProfilesFound = len(profileIDs)

	semaphore := make(chan struct{}, config.MaxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < len(profileIDs); i += config.BatchSize {
		end := i + config.BatchSize
		if end > len(profileIDs) {
			end = len(profileIDs)
		}

		batch := profileIDs[i:end]

		wg.Add(1)
		go func(ids []uuid.UUID) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			processed, succeeded, failed := p.processBatch(ctx, ids)

			mu.Lock()
			stats.ProfilesProcessed += processed
			stats.ProfilesSucceeded += succeeded
			stats.ProfilesFailed += failed
			mu.Unlock()
		}(batch)
	}

	wg.Wait()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	return stats, nil
}

func (p *RecommendationPipeline) processBatch(ctx context.Context, profileIDs []uuid.UUID) (processed, succeeded, failed int) {
	for _, id := range profileIDs {
		processed++
		if _, err := p.service.GenerateAndStore(ctx, id); err != nil {
			p.log.Warn("failed to refresh recommendations", "profile_id", id, "error", err)
			failed++
		} else {
			succeeded++
		}
	}
	return processed, succeeded, failed
}

// GetStats returns current pipeline statistics
func (p *RecommendationPipeline) GetStats(ctx context.Context) (PipelineStatus, error) {
	status := PipelineStatus{
		IsRunning: p.IsRunning(),
		Timestamp: time.Now(),
	}

	var totalProfiles, profilesWithRecs int
	if err := p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM business_profiles").Scan(&totalProfiles); err != nil {
		return status, err
	}
	if err := p.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT profile_id) FROM recommendations").Scan(&profilesWithRecs); err != nil {
		return status, err
	}

	status.TotalProfiles = totalProfiles
	status.ProfilesWithRecs = profilesWithRecs
	status.PendingProfiles = totalProfiles - profilesWithRecs

	return status, nil
}

// PipelineStats summarizes one refresh cycle
type PipelineStats struct {
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	Duration          time.Duration `json:"duration"`
	BatchSize         int           `json:"batch_size"`
	ProfilesFound     int           `json:"profiles_found"`
	ProfilesProcessed int           `json:"profiles_processed"`
	ProfilesSucceeded int           `json:"profiles_succeeded"`
	ProfilesFailed    int           `json:"profiles_failed"`
}

func (s *PipelineStats) Summary() string {
	return fmt.Sprintf("processed=%d, succeeded=%d, failed=%d, duration=%v",
		s.ProfilesProcessed, s.ProfilesSucceeded, s.ProfilesFailed, s.Duration.Round(time.Second))
}

// PipelineStatus is a point-in-time view of pipeline coverage
type PipelineStatus struct {
	IsRunning        bool      `json:"is_running"`
	TotalProfiles    int       `json:"total_profiles"`
	ProfilesWithRecs int       `json:"profiles_with_recommendations"`
	PendingProfiles  int       `json:"pending_profiles"`
	Timestamp        time.Time `json:"timestamp"`
}
