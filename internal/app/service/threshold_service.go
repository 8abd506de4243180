package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/app/repository"
	"github.com/ikkim/tiffin-backend/internal/pricing"
	"github.com/ikkim/tiffin-backend/pkg/logger"
)

var (
	ErrThresholdsUnavailable = errors.New("price thresholds unavailable")
)

// ThresholdCache is the secondary store consulted when the database cannot
// be read. pkg/redis provides the production implementation.
type ThresholdCache interface {
	Save(ctx context.Context, rows []model.PriceThreshold) error
	Load(ctx context.Context) ([]model.PriceThreshold, error)
}

type ThresholdService interface {
	Refresh(ctx context.Context) error
	Current() pricing.Thresholds
	Update(ctx context.Context, rows []model.PriceThreshold) error
}

type thresholdService struct {
	repo    repository.ThresholdRepository
	cache   ThresholdCache
	current atomic.Pointer[pricing.Thresholds]
}

// NewThresholdService starts with an empty map, so prices pass through
// unadjusted until the first successful Refresh. cache may be nil.
func NewThresholdService(repo repository.ThresholdRepository, cache ThresholdCache) ThresholdService {
	s := &thresholdService{repo: repo, cache: cache}
	empty := pricing.Thresholds{}
	s.current.Store(&empty)
	return s
}

// Refresh reloads thresholds from the database, falling back to the cache.
// When both fail the previous map stays in place and an error is returned.
func (s *thresholdService) Refresh(ctx context.Context) error {
	rows, err := s.repo.FindAll()
	if err == nil {
		s.swap(rows, "database")
		if s.cache != nil {
			if cacheErr := s.cache.Save(ctx, rows); cacheErr != nil {
				logger.Warn("Failed to write price thresholds to cache", map[string]interface{}{
					"error": cacheErr.Error(),
				})
			}
		}
		return nil
	}

	logger.Warn("Failed to load price thresholds from database, trying cache", map[string]interface{}{
		"error": err.Error(),
	})
	if s.cache == nil {
		return ErrThresholdsUnavailable
	}

	cached, cacheErr := s.cache.Load(ctx)
	if cacheErr != nil || len(cached) == 0 {
		logger.Error("Failed to load price thresholds from cache", cacheErr, map[string]interface{}{
			"cached_rows": len(cached),
		})
		return ErrThresholdsUnavailable
	}
	s.swap(cached, "cache")
	return nil
}

func (s *thresholdService) Current() pricing.Thresholds {
	return *s.current.Load()
}

// Update stores rows and refreshes the in-memory map.
func (s *thresholdService) Update(ctx context.Context, rows []model.PriceThreshold) error {
	logger.Info("Updating price thresholds", map[string]interface{}{
		"count": len(rows),
	})
	if err := s.repo.Upsert(rows); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *thresholdService) swap(rows []model.PriceThreshold, source string) {
	thresholds := pricing.BuildThresholds(rows)
	s.current.Store(&thresholds)

	logger.Info("Price thresholds refreshed", map[string]interface{}{
		"source":     source,
		"rows":       len(rows),
		"categories": len(thresholds),
	})
}
