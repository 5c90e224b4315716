package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/grantmatch/grant-match-api/internal/engine"
	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/repository"
)

// DefaultRequirementTTL bounds how long cached requirement lists live.
// Grant descriptions rarely change after ingestion, so a long TTL is safe.
const DefaultRequirementTTL = 24 * time.Hour

// RequirementCache is a redis read-through layer implementing
// engine.RequirementStore over the postgres requirement repository.
// Redis being down degrades to the repository alone (fail-open).
type RequirementCache struct {
	client *redis.Client
	repo   repository.RequirementRepository
	ttl    time.Duration
	log    logger.Logger
}

// NewRequirementCache creates the cache from a redis URL. An empty URL
// disables redis and passes straight through to the repository.
func NewRequirementCache(redisURL string, repo repository.RequirementRepository, ttl time.Duration, log logger.Logger) (*RequirementCache, error) {
	cache := &RequirementCache{repo: repo, ttl: ttl, log: log}
	if ttl <= 0 {
		cache.ttl = DefaultRequirementTTL
	}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, err
		}
		cache.client = redis.NewClient(opts)
	}

	return cache, nil
}

// Ping checks redis connectivity. Returns nil when redis is disabled.
func (c *RequirementCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// GetByGrant serves the cached requirement list, falling back to the
// repository and repopulating the cache on a miss
func (c *RequirementCache) GetByGrant(ctx context.Context, grantID uuid.UUID) ([]engine.ComplianceRequirement, error) {
	if c.client != nil {
		data, err := c.client.Get(ctx, RequirementsKey(grantID)).Bytes()
		if err == nil {
			var requirements []engine.ComplianceRequirement
			if jsonErr := json.Unmarshal(data, &requirements); jsonErr == nil {
				return requirements, nil
			}
			// Corrupt entry; drop it and fall through to the repository
			c.client.Del(ctx, RequirementsKey(grantID))
		} else if err != redis.Nil {
			c.log.Warn("redis requirement lookup failed, falling back to database", "grant_id", grantID, "error", err)
		}
	}

	requirements, err := c.repo.GetByGrant(ctx, grantID)
	if err != nil {
		return nil, err
	}

	if len(requirements) > 0 {
		c.populate(ctx, grantID, requirements)
	}
	return requirements, nil
}

// SaveForGrant writes through to the repository and then the cache
func (c *RequirementCache) SaveForGrant(ctx context.Context, grantID uuid.UUID, requirements []engine.ComplianceRequirement) error {
	if err := c.repo.SaveForGrant(ctx, grantID, requirements); err != nil {
		return err
	}
	c.populate(ctx, grantID, requirements)
	return nil
}

func (c *RequirementCache) populate(ctx context.Context, grantID uuid.UUID, requirements []engine.ComplianceRequirement) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(requirements)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, RequirementsKey(grantID), data, c.ttl).Err(); err != nil {
		c.log.Warn("failed to populate requirement cache", "grant_id", grantID, "error", err)
	}
}
