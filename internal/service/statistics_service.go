package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ecole-stages/stage-api/internal/models"
	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
)

const statsCacheKey = "stats:declarations"

type statsRepository interface {
	Stats(ctx context.Context) (*models.DeclarationStats, error)
}

// StatisticsService serves the aggregate declaration counts, optionally
// through a cache.
type StatisticsService struct {
	repo   statsRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatisticsService constructs the statistics service. cache may be nil.
func NewStatisticsService(repo statsRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Get returns the aggregate counts and indicates cache utilisation.
func (s *StatisticsService) Get(ctx context.Context) (*models.DeclarationStats, bool, error) {
	var cached models.DeclarationStats
	if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute statistics")
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, s.ttl); err != nil {
		s.logger.Warn("statistics cache store failed", zap.Error(err))
	}
	return stats, false, nil
}

// Invalidate drops the cached counts. Called after every declaration mutation.
func (s *StatisticsService) Invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, statsCacheKey)
}
