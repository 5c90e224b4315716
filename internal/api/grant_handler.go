package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grantmatch/grant-match-api/internal/auth"
	"github.com/grantmatch/grant-match-api/internal/models"
	"github.com/grantmatch/grant-match-api/internal/services"
)

// GrantHandler handles grant catalog endpoints
type GrantHandler struct {
	grantService services.GrantService
}

// NewGrantHandler creates a new grant handler
func NewGrantHandler(grantService services.GrantService) *GrantHandler {
	return &GrantHandler{grantService: grantService}
}

// GetGrants returns grant listings matching the query filters
func (h *GrantHandler) GetGrants(c *gin.Context) {
	filters := models.GrantFilters{
		Category:    c.Query("category"),
		Agency:      c.Query("agency"),
		IndustryTag: c.Query("industry_tag"),
	}

	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filters.Limit = n
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil && n >= 0 {
			filters.Offset = n
		}
	}
	if after := c.Query("deadline_after"); after != "" {
		if t, err := time.Parse(time.RFC3339, after); err == nil {
			filters.DeadlineAfter = &t
		}
	}

	grants, err := h.grantService.GetAll(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grants":    grants,
		"count":     len(grants),
		"timestamp": time.Now(),
	})
}

// GetGrant returns a single grant listing
func (h *GrantHandler) GetGrant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant id"})
		return
	}

	grant, err := h.grantService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grant":     grant,
		"timestamp": time.Now(),
	})
}

// CreateGrant adds a grant listing (Admin only)
func (h *GrantHandler) CreateGrant(c *gin.Context) {
	role, exists := c.Get(auth.UserRoleKey)
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var grant models.GrantOpportunity
	if err := c.ShouldBindJSON(&grant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant format: " + err.Error()})
		return
	}

	if err := h.grantService.Create(c.Request.Context(), &grant); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Grant created successfully",
		"grant":     grant,
		"timestamp": time.Now(),
	})
}

// GetRequirements returns the grant's compliance requirements, extracting
// them on first request
func (h *GrantHandler) GetRequirements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant id"})
		return
	}

	requirements, err := h.grantService.GetRequirements(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grant_id":     id,
		"requirements": requirements,
		"count":        len(requirements),
		"timestamp":    time.Now(),
	})
}

// RecordApplication stores a grant application outcome
func (h *GrantHandler) RecordApplication(c *gin.Context) {
	var application models.GrantApplication
	if err := c.ShouldBindJSON(&application); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application format: " + err.Error()})
		return
	}

	if err := h.grantService.RecordApplication(c.Request.Context(), &application); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application recorded successfully",
		"application": application,
		"timestamp":   time.Now(),
	})
}
