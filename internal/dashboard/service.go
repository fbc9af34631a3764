package dashboard

import (
	"context"
	"errors"
	"time"

	"leadvoice/pkg/logger"
	"leadvoice/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey  = "dashboard:stats"
	chartsCacheKey = "dashboard:charts"
	cacheTTL       = 30 * time.Second
	chartWindow    = 30 * 24 * time.Hour
)

// Service serves dashboard aggregates with a short Redis cache in front.
// The aggregates are cheap enough to recompute; the cache only smooths
// dashboard polling. A nil Redis client disables caching entirely.
type Service struct {
	repo  Repository
	cache *redis.Client
	clock func() time.Time
}

func NewService(repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache, clock: time.Now}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var cached Stats
	err := utils.CacheGetJSON(ctx, s.cache, statsCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, utils.ErrCacheMiss) {
		logger.From(ctx).Warn("dashboard stats cache read failed", "error", err)
	}

	stats, err := s.repo.Stats(ctx, s.clock().UTC())
	if err != nil {
		return Stats{}, err
	}
	if err := utils.CacheSetJSON(ctx, s.cache, statsCacheKey, stats, cacheTTL); err != nil {
		logger.From(ctx).Warn("dashboard stats cache write failed", "error", err)
	}
	return stats, nil
}

func (s *Service) Charts(ctx context.Context) (Charts, error) {
	var cached Charts
	err := utils.CacheGetJSON(ctx, s.cache, chartsCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, utils.ErrCacheMiss) {
		logger.From(ctx).Warn("dashboard charts cache read failed", "error", err)
	}

	charts, err := s.repo.Charts(ctx, s.clock().UTC().Add(-chartWindow))
	if err != nil {
		return Charts{}, err
	}
	if err := utils.CacheSetJSON(ctx, s.cache, chartsCacheKey, charts, cacheTTL); err != nil {
		logger.From(ctx).Warn("dashboard charts cache write failed", "error", err)
	}
	return charts, nil
}
