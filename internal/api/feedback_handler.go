package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grantmatch/grant-match-api/internal/auth"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/services"
)

// FeedbackHandler handles recommendation feedback endpoints
type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedback records how the user rated a recommendation
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var event models.UserFeedback
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback format: " + err.Error()})
		return
	}
	event.UserID = userID

	if err := h.feedbackService.Submit(c.Request.Context(), &event); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Feedback recorded successfully",
		"timestamp": time.Now(),
	})
}

// GetMetrics evaluates model quality over the trailing window (Admin only)
func (h *FeedbackHandler) GetMetrics(c *gin.Context) {
	role, exists := c.Get(auth.UserRoleKey)
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	windowDays := 30
	if window := c.Query("window_days"); window != "" {
		if n, err := strconv.Atoi(window); err == nil && n > 0 {
			windowDays = n
		}
	}

	metrics, err := h.feedbackService.Metrics(c.Request.Context(), windowDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":   metrics,
		"timestamp": time.Now(),
	})
}
