package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmaindex/backend-go/internal/config"
	"github.com/farmaindex/backend-go/internal/domain"
)

const (
	runDashboardKeyPrefix = "analise:dashboard"
	runScanBatchSize      = 100
)

// RunCache stores the dashboard payload of a client's latest run so the
// history endpoints don't hit Postgres on every page load.
type RunCache interface {
	GetDashboard(ctx context.Context, orgID, clientID string) (*domain.AnalysisRun, bool, error)
	SetDashboard(ctx context.Context, orgID, clientID string, run *domain.AnalysisRun) error
	InvalidateClient(ctx context.Context, orgID, clientID string) error
	InvalidateAll(ctx context.Context) error
}

type redisRunCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopRunCache struct{}

func NewRunCache(cfg config.CacheConfig) (RunCache, error) {
	if !cfg.Enabled {
		return &noopRunCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisRunCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopRunCache() RunCache {
	return &noopRunCache{}
}

func (c *redisRunCache) GetDashboard(ctx context.Context, orgID, clientID string) (*domain.AnalysisRun, bool, error) {
	key := buildDashboardKey(orgID, clientID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var run domain.AnalysisRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &run, true, nil
}

func (c *redisRunCache) SetDashboard(ctx context.Context, orgID, clientID string, run *domain.AnalysisRun) error {
	key := buildDashboardKey(orgID, clientID)
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisRunCache) InvalidateClient(ctx context.Context, orgID, clientID string) error {
	return c.client.Del(ctx, buildDashboardKey(orgID, clientID)).Err()
}

func (c *redisRunCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, runDashboardKeyPrefix, runScanBatchSize)
}

func (n *noopRunCache) GetDashboard(ctx context.Context, orgID, clientID string) (*domain.AnalysisRun, bool, error) {
	return nil, false, nil
}

func (n *noopRunCache) SetDashboard(ctx context.Context, orgID, clientID string, run *domain.AnalysisRun) error {
	return nil
}

func (n *noopRunCache) InvalidateClient(ctx context.Context, orgID, clientID string) error {
	return nil
}

func (n *noopRunCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(orgID, clientID string) string {
	return fmt.Sprintf("%s:%s:%s", runDashboardKeyPrefix, orgID, clientID)
}
