package caching

import (
	"context"
	"time"

	"storepos/internal/models"

	"github.com/google/uuid"
)

// noopCacheService always misses. It is used when REDIS_ENABLED=false.
type noopCacheService struct{}

func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetProduct(context.Context, uuid.UUID, uuid.UUID) (*models.Product, int64, error) {
	return nil, 0, nil
}

func (noopCacheService) SetProduct(context.Context, uuid.UUID, *models.Product, int64, time.Duration) error {
	return nil
}

func (noopCacheService) DeleteProducts(context.Context, uuid.UUID, ...uuid.UUID) error { return nil }

func (noopCacheService) GetSettings(context.Context, uuid.UUID) (*models.Settings, error) {
	return nil, nil
}

func (noopCacheService) SetSettings(context.Context, *models.Settings, time.Duration) error {
	return nil
}

func (noopCacheService) DeleteSettings(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) GetStatistics(context.Context, uuid.UUID, string) (*models.Statistics, error) {
	return nil, nil
}

func (noopCacheService) SetStatistics(context.Context, uuid.UUID, string, *models.Statistics, time.Duration) error {
	return nil
}

func (noopCacheService) InvalidateStatistics(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) InvalidateTenantCache(context.Context, uuid.UUID) error { return nil }

func (noopCacheService) Ping(context.Context) error { return nil }
