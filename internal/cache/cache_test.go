package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantmatch/grant-match-api/internal/engine"
	"github.com/grantmatch/grant-match-api/internal/logger"
)

// fakeRequirementRepo implements repository.RequirementRepository
type fakeRequirementRepo struct {
	rows map[uuid.UUID][]engine.ComplianceRequirement
}

func (f *fakeRequirementRepo) GetByGrant(ctx context.Context, grantID uuid.UUID) ([]engine.ComplianceRequirement, error) {
	return f.rows[grantID], nil
}

func (f *fakeRequirementRepo) SaveForGrant(ctx context.Context, grantID uuid.UUID, requirements []engine.ComplianceRequirement) error {
	f.rows[grantID] = requirements
	return nil
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	repo := &fakeRequirementRepo{rows: make(map[uuid.UUID][]engine.ComplianceRequirement)}
	cache, err := NewRequirementCache("", repo, 0, logger.Nop{})
	require.NoError(t, err)

	require.NoError(t, cache.Ping(context.Background()))

	grantID := uuid.New()
	requirements := []engine.ComplianceRequirement{{ID: uuid.New(), GrantID: grantID, Type: engine.RequirementFinancial}}

	require.NoError(t, cache.SaveForGrant(context.Background(), grantID, requirements))

	got, err := cache.GetByGrant(context.Background(), grantID)
	require.NoError(t, err)
	assert.Equal(t, requirements, got)
}

func TestCacheRejectsBadRedisURL(t *testing.T) {
	repo := &fakeRequirementRepo{rows: make(map[uuid.UUID][]engine.ComplianceRequirement)}

	_, err := NewRequirementCache("not-a-url", repo, 0, logger.Nop{})
	assert.Error(t, err)
}

func TestRequirementsKey(t *testing.T) {
	grantID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "grant:requirements:6ba7b810-9dad-11d1-80b4-00c04fd430c8", RequirementsKey(grantID))
}
