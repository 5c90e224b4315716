package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grantmatch/grant-match-api/internal/auth"
	"github.com/grantmatch/grant-match-api/internal/services"
	"github.com/grantmatch/grant-match-api/pkg/config"
)

// PipelineHandler handles batch recommendation pipeline endpoints
type PipelineHandler struct {
	pipeline *services.RecommendationPipeline
	cfg      *config.Config
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipeline *services.RecommendationPipeline, cfg *config.Config) *PipelineHandler {
	return &PipelineHandler{pipeline: pipeline, cfg: cfg}
}

func (h *PipelineHandler) pipelineConfig() services.PipelineConfig {
	cfg := services.DefaultPipelineConfig()
	if h.cfg.PipelineBatchSize > 0 {
		cfg.BatchSize = h.cfg.PipelineBatchSize
	}
	if h.cfg.PipelineInterval > 0 {
		cfg.Interval = h.cfg.PipelineInterval
	}
	return cfg
}

// GetPipelineStatus returns pipeline state and coverage counts
func (h *PipelineHandler) GetPipelineStatus(c *gin.Context) {
	status, err := h.pipeline.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get pipeline status: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

// StartPipeline starts the automated refresh loop (Admin only)
func (h *PipelineHandler) StartPipeline(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	if err := h.pipeline.Start(h.pipelineConfig()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Pipeline started successfully",
		"timestamp": time.Now(),
	})
}

// StopPipeline stops the automated refresh loop (Admin only)
func (h *PipelineHandler) StopPipeline(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	if err := h.pipeline.Stop(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Pipeline stopped successfully",
		"timestamp": time.Now(),
	})
}

// RunPipelineOnce executes a single refresh cycle synchronously (Admin only)
func (h *PipelineHandler) RunPipelineOnce(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	stats, err := h.pipeline.RunOnce(c.Request.Context(), h.pipelineConfig())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pipeline cycle failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Pipeline cycle completed",
		"stats":     stats,
		"timestamp": time.Now(),
	})
}

func requireAdmin(c *gin.Context) bool {
	role, exists := c.Get(auth.UserRoleKey)
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return false
	}
	return true
}
