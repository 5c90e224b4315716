package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/services"
)

// RecommendationHandler handles compatibility analysis and recommendation
// endpoints
type RecommendationHandler struct {
	recommendationService services.RecommendationService
	profileService        services.ProfileService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendationService services.RecommendationService, profileService services.ProfileService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		profileService:        profileService,
	}
}

// AnalyzeCompatibility scores a profile against a grant across all six
// compatibility dimensions
func (h *RecommendationHandler) AnalyzeCompatibility(c *gin.Context) {
	profileID, grantID, ok := pairParams(c)
	if !ok {
		return
	}

	score, err := h.recommendationService.AnalyzeCompatibility(c.Request.Context(), profileID, grantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_id": profileID,
		"score":      score,
		"timestamp":  time.Now(),
	})
}

// CheckCompliance evaluates a profile against a grant's requirements
func (h *RecommendationHandler) CheckCompliance(c *gin.Context) {
	profileID, grantID, ok := pairParams(c)
	if !ok {
		return
	}

	report, err := h.recommendationService.CheckCompliance(c.Request.Context(), profileID, grantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_id": profileID,
		"grant_id":   grantID,
		"report":     report,
		"timestamp":  time.Now(),
	})
}

// PredictSuccess estimates the win probability for a profile/grant pair
func (h *RecommendationHandler) PredictSuccess(c *gin.Context) {
	profileID, grantID, ok := pairParams(c)
	if !ok {
		return
	}

	prediction, err := h.recommendationService.PredictSuccess(c.Request.Context(), profileID, grantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_id": profileID,
		"grant_id":   grantID,
		"prediction": prediction,
		"timestamp":  time.Now(),
	})
}

// GetRecommendations returns the stored recommendation snapshot for a
// profile, generating on demand when none exists or ?fresh=true
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	if c.Query("fresh") != "true" {
		stored, err := h.recommendationService.GetStored(c.Request.Context(), profileID)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(stored) > 0 {
			c.JSON(http.StatusOK, gin.H{
				"profile_id":      profileID,
				"recommendations": stored,
				"count":           len(stored),
				"source":          "stored",
				"timestamp":       time.Now(),
			})
			return
		}
	}

	recommendations, err := h.recommendationService.GenerateAndStore(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_id":      profileID,
		"recommendations": recommendations,
		"count":           len(recommendations),
		"source":          "generated",
		"timestamp":       time.Now(),
	})
}

// RefreshRecommendations regenerates and stores the snapshot for a profile
func (h *RecommendationHandler) RefreshRecommendations(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	recommendations, err := h.recommendationService.GenerateAndStore(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Recommendations refreshed successfully",
		"profile_id":      profileID,
		"recommendations": recommendations,
		"count":           len(recommendations),
		"timestamp":       time.Now(),
	})
}

func pairParams(c *gin.Context) (profileID, grantID uuid.UUID, ok bool) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return uuid.Nil, uuid.Nil, false
	}
	grantID, err = uuid.Parse(c.Param("grant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant id"})
		return uuid.Nil, uuid.Nil, false
	}
	return profileID, grantID, true
}
