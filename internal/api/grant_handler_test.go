package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantmatch/grant-match-api/internal/auth"
	"github.com/grantmatch/grant-match-api/internal/engine"
	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/models"
)

// fakeGrantService implements services.GrantService for handler tests
type fakeGrantService struct {
	grants       map[uuid.UUID]*models.GrantOpportunity
	requirements []engine.ComplianceRequirement
}

func newFakeGrantService() *fakeGrantService {
	return &fakeGrantService{grants: make(map[uuid.UUID]*models.GrantOpportunity)}
}

func (f *fakeGrantService) GetByID(ctx context.Context, id uuid.UUID) (*models.GrantOpportunity, error) {
	grant, ok := f.grants[id]
	if !ok {
		return nil, apperrors.NotFound("grant not found", nil)
	}
	return grant, nil
}

func (f *fakeGrantService) GetAll(ctx context.Context, filters models.GrantFilters) ([]models.GrantOpportunity, error) {
	out := make([]models.GrantOpportunity, 0, len(f.grants))
	for _, grant := range f.grants {
		out = append(out, *grant)
	}
	return out, nil
}

func (f *fakeGrantService) Create(ctx context.Context, grant *models.GrantOpportunity) error {
	if grant.Title == "" {
		return apperrors.InvalidInput("grant title is required", nil)
	}
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	f.grants[grant.ID] = grant
	return nil
}

func (f *fakeGrantService) GetRequirements(ctx context.Context, grantID uuid.UUID) ([]engine.ComplianceRequirement, error) {
	if _, ok := f.grants[grantID]; !ok {
		return nil, apperrors.NotFound("grant not found", nil)
	}
	return f.requirements, nil
}

func (f *fakeGrantService) RecordApplication(ctx context.Context, application *models.GrantApplication) error {
	return nil
}

func setupGrantRouter(service *fakeGrantService, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if role != "" {
		r.Use(func(c *gin.Context) {
			c.Set(auth.UserRoleKey, role)
		})
	}

	handler := NewGrantHandler(service)
	r.GET("/grants", handler.GetGrants)
	r.GET("/grants/:id", handler.GetGrant)
	r.POST("/grants", handler.CreateGrant)
	r.GET("/grants/:id/requirements", handler.GetRequirements)
	return r
}

func TestGetGrantNotFound(t *testing.T) {
	r := setupGrantRouter(newFakeGrantService(), "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/grants/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGrantInvalidID(t *testing.T) {
	r := setupGrantRouter(newFakeGrantService(), "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/grants/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGrantRequiresAdmin(t *testing.T) {
	r := setupGrantRouter(newFakeGrantService(), "user")

	body := `{"title":"Tech Grant","agency":"SBA"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/grants", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAndGetGrant(t *testing.T) {
	service := newFakeGrantService()
	r := setupGrantRouter(service, "admin")

	body := `{"title":"Tech Grant","agency":"SBA","amount":"$250,000"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/grants", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.grants, 1)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/grants", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Grants []models.GrantOpportunity `json:"grants"`
		Count  int                       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Tech Grant", resp.Grants[0].Title)
}

func TestGetRequirements(t *testing.T) {
	service := newFakeGrantService()
	grant := &models.GrantOpportunity{ID: uuid.New(), Title: "Tech Grant"}
	service.grants[grant.ID] = grant
	service.requirements = []engine.ComplianceRequirement{
		{ID: uuid.New(), GrantID: grant.ID, Type: engine.RequirementEligibility},
	}

	r := setupGrantRouter(service, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/grants/"+grant.ID.String()+"/requirements", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Requirements []engine.ComplianceRequirement `json:"requirements"`
		Count        int                            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, engine.RequirementEligibility, resp.Requirements[0].Type)
}
