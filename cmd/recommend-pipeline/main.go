package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/grantmatch/grant-match-api/internal/database"
	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/services"
	"github.com/grantmatch/grant-match-api/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.New()
	appLog := logger.New(cfg.IsDevelopment())

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	svcs, err := services.NewServices(db, cfg, appLog)
	if err != nil {
		log.Fatal("Failed to initialize services:", err)
	}

	pipeline := services.NewRecommendationPipeline(db, svcs, appLog)
	pipelineConfig := parsePipelineConfig(cfg)

	appLog.Info("recommendation pipeline configured",
		"batch_size", pipelineConfig.BatchSize,
		"interval", pipelineConfig.Interval,
		"max_concurrent", pipelineConfig.MaxConcurrent)

	// One-time run
	if len(os.Args) > 1 && os.Args[1] == "--once" {
		stats, err := pipeline.RunOnce(context.Background(), pipelineConfig)
		if err != nil {
			log.Fatalf("One-time refresh failed: %v", err)
		}
		appLog.Info("one-time refresh completed", "summary", stats.Summary())
		return
	}

	// Start the automated pipeline
	if err := pipeline.Start(pipelineConfig); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	appLog.Info("recommendation pipeline is running")
	<-sigChan
	appLog.Info("shutdown signal received, stopping pipeline")

	if err := pipeline.Stop(); err != nil {
		appLog.Error("error stopping pipeline", "error", err)
	}
}

// parsePipelineConfig parses pipeline configuration from environment
// variables, falling back to application config
func parsePipelineConfig(cfg *config.Config) services.PipelineConfig {
	pipelineConfig := services.DefaultPipelineConfig()

	if cfg.PipelineBatchSize > 0 {
		pipelineConfig.BatchSize = cfg.PipelineBatchSize
	}
	if cfg.PipelineInterval > 0 {
		pipelineConfig.Interval = cfg.PipelineInterval
	}
	if val := os.Getenv("PIPELINE_MAX_CONCURRENT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			pipelineConfig.MaxConcurrent = parsed
		}
	}
	if val := os.Getenv("PIPELINE_INTERVAL_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			pipelineConfig.Interval = time.Duration(parsed) * time.Minute
		}
	}

	return pipelineConfig
}
