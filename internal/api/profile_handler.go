package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/auth"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/services"
)

// ProfileHandler handles business profile endpoints
type ProfileHandler struct {
	profileService services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// CreateProfile creates a business profile for the authenticated user
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var form models.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile format: " + err.Error()})
		return
	}

	profile, err := h.profileService.Create(c.Request.Context(), userID, &form)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Profile created successfully",
		"profile":   profile,
		"timestamp": time.Now(),
	})
}

// GetMyProfile returns the authenticated user's profile
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.profileService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   profile,
		"timestamp": time.Now(),
	})
}

// GetProfile returns a profile by id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   profile,
		"timestamp": time.Now(),
	})
}

// UpdateProfile overwrites a profile by id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	var form models.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile format: " + err.Error()})
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), id, &form)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Profile updated successfully",
		"profile":   profile,
		"timestamp": time.Now(),
	})
}

// currentUserID pulls the authenticated user id set by the JWT middleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(auth.UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
