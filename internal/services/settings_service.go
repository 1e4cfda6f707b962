package services

import (
	"context"
	"strings"
	"time"

	"storepos/internal/caching"
	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const settingsCacheTTL = time.Hour

type SettingsService interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error)
	UpdateCurrency(ctx context.Context, tenantID uuid.UUID, currency string) (*models.Settings, error)
	// ResetProfits moves the profit baseline to now. Sales are kept.
	ResetProfits(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error)
	// ResetAll wipes the store's data but keeps the tenant and its code.
	ResetAll(ctx context.Context, tenantID uuid.UUID) error
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
	cacheService caching.CacheService
	logger       *zap.Logger
	now          func() time.Time
}

func NewSettingsService(settingsRepo repositories.SettingsRepository, cacheService caching.CacheService, logger *zap.Logger) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		cacheService: cacheService,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *settingsService) Get(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	if cached, err := s.cacheService.GetSettings(ctx, tenantID); cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("settings cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}

	settings, err := s.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, settings)
	return settings, nil
}

func (s *settingsService) UpdateCurrency(ctx context.Context, tenantID uuid.UUID, currency string) (*models.Settings, error) {
	currency = strings.TrimSpace(currency)
	if !models.IsSupportedCurrency(currency) {
		return nil, common.ErrInvalidCurrency
	}
	settings, err := s.settingsRepo.SetCurrency(ctx, tenantID, currency)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, settings)
	return settings, nil
}

func (s *settingsService) ResetProfits(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	settings, err := s.settingsRepo.MarkProfitsReset(ctx, tenantID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.cache(ctx, settings)
	if err := s.cacheService.InvalidateStatistics(ctx, tenantID); err != nil {
		s.logger.Warn("statistics cache invalidation failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	s.logger.Info("profits reset", zap.String("tenant_id", tenantID.String()), zap.Timep("baseline", settings.ProfitsResetAt))
	return settings, nil
}

func (s *settingsService) ResetAll(ctx context.Context, tenantID uuid.UUID) error {
	if err := s.settingsRepo.ResetTenantData(ctx, tenantID); err != nil {
		return err
	}
	if err := s.cacheService.InvalidateTenantCache(ctx, tenantID); err != nil {
		s.logger.Warn("tenant cache invalidation failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	s.logger.Info("store data reset", zap.String("tenant_id", tenantID.String()))
	return nil
}

func (s *settingsService) cache(ctx context.Context, settings *models.Settings) {
	if err := s.cacheService.SetSettings(ctx, settings, settingsCacheTTL); err != nil {
		s.logger.Warn("settings cache write failed", zap.String("tenant_id", settings.TenantID.String()), zap.Error(err))
	}
}
