package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantmatch/grant-match-api/internal/logger"
)

// fakeRequirementStore implements RequirementStore for testing
type fakeRequirementStore struct {
	cached     []ComplianceRequirement
	getErr     error
	saveErr    error
	saved      []ComplianceRequirement
	saveCalls  int
	getCalls   int
}

func (f *fakeRequirementStore) GetByGrant(ctx context.Context, grantID uuid.UUID) ([]ComplianceRequirement, error) {
	f.getCalls++
	return f.cached, f.getErr
}

func (f *fakeRequirementStore) SaveForGrant(ctx context.Context, grantID uuid.UUID, requirements []ComplianceRequirement) error {
	f.saveCalls++
	f.saved = requirements
	return f.saveErr
}

func TestDeriveMatchesPhrasePatterns(t *testing.T) {
	extractor := NewRequirementExtractor(nil, logger.Nop{})
	grantID := uuid.New()

	description := "Small business technology grant. A detailed business plan is required."
	requirements := extractor.Derive(grantID, description)

	require.Len(t, requirements, 3)

	assert.Equal(t, RequirementEligibility, requirements[0].Type)
	assert.True(t, requirements[0].Mandatory)
	assert.Equal(t, RequirementDocumentation, requirements[1].Type)
	assert.True(t, requirements[1].Mandatory)
	assert.Equal(t, RequirementTechnical, requirements[2].Type)
	assert.False(t, requirements[2].Mandatory)

	for _, req := range requirements {
		assert.Equal(t, grantID, req.GrantID)
		assert.Equal(t, ExtractionConfidence, req.ConfidenceScore)
		assert.NotEmpty(t, req.ValidationCriteria)
		assert.NotEmpty(t, req.DocumentationNeeded)
	}
}

func TestDeriveEmptyDescription(t *testing.T) {
	extractor := NewRequirementExtractor(nil, logger.Nop{})

	requirements := extractor.Derive(uuid.New(), "")
	assert.Empty(t, requirements)

	requirements = extractor.Derive(uuid.New(), "   \n\t  ")
	assert.Empty(t, requirements)
}

func TestDeriveNoMatches(t *testing.T) {
	extractor := NewRequirementExtractor(nil, logger.Nop{})

	requirements := extractor.Derive(uuid.New(), "General community improvement funding.")
	assert.Empty(t, requirements)
}

func TestDeriveFlattensHTML(t *testing.T) {
	extractor := NewRequirementExtractor(nil, logger.Nop{})

	description := "<html><body><h1>Tech Grant</h1><p>Open to any <strong>small business</strong> with matching funds.</p></body></html>"
	requirements := extractor.Derive(uuid.New(), description)

	require.Len(t, requirements, 2)
	assert.Equal(t, RequirementEligibility, requirements[0].Type)
	assert.Equal(t, RequirementFinancial, requirements[1].Type)
}

func TestExtractRequirementsServesCachedList(t *testing.T) {
	cached := []ComplianceRequirement{{ID: uuid.New(), Type: RequirementFinancial}}
	store := &fakeRequirementStore{cached: cached}
	extractor := NewRequirementExtractor(store, logger.Nop{})

	requirements, err := extractor.ExtractRequirements(context.Background(), uuid.New(), "small business grant")
	require.NoError(t, err)

	// First extraction wins: the cached list is returned even though the
	// description would derive different requirements
	assert.Equal(t, cached, requirements)
	assert.Equal(t, 0, store.saveCalls)
}

func TestExtractRequirementsPersistsFreshExtraction(t *testing.T) {
	store := &fakeRequirementStore{}
	extractor := NewRequirementExtractor(store, logger.Nop{})

	requirements, err := extractor.ExtractRequirements(context.Background(), uuid.New(), "small business grant")
	require.NoError(t, err)

	require.Len(t, requirements, 1)
	assert.Equal(t, 1, store.saveCalls)
	assert.Equal(t, requirements, store.saved)
}

func TestExtractRequirementsFailOpen(t *testing.T) {
	store := &fakeRequirementStore{
		getErr:  errors.New("redis down"),
		saveErr: errors.New("db down"),
	}
	extractor := NewRequirementExtractor(store, logger.Nop{})

	// Store failures never surface; the derived list is still returned
	requirements, err := extractor.ExtractRequirements(context.Background(), uuid.New(), "matching funds required")
	require.NoError(t, err)
	require.Len(t, requirements, 1)
	assert.Equal(t, RequirementFinancial, requirements[0].Type)
}
