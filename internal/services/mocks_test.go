package services

import (
	"context"
	"time"

	"storepos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product, freeLimit int) error {
	args := m.Called(ctx, product, freeLimit)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	args := m.Called(ctx, tenantID, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, tenantID, id uuid.UUID, patch *models.ProductUpdate) (*models.Product, error) {
	args := m.Called(ctx, tenantID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) LowStockSummary(ctx context.Context, threshold int) ([]*models.TenantStockSummary, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]*models.TenantStockSummary), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *models.Sale, lines []models.SaleItemRequest) error {
	args := m.Called(ctx, sale, lines)
	return args.Error(0)
}

func (m *MockSaleRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleRepository) List(ctx context.Context, tenantID uuid.UUID, filter models.SaleFilter) ([]*models.Sale, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Sale), args.Error(1)
}

func (m *MockSaleRepository) DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) SetCurrency(ctx context.Context, tenantID uuid.UUID, currency string) (*models.Settings, error) {
	args := m.Called(ctx, tenantID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) MarkProfitsReset(ctx context.Context, tenantID uuid.UUID, at time.Time) (*models.Settings, error) {
	args := m.Called(ctx, tenantID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) ResetTenantData(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, int64, error) {
	args := m.Called(ctx, tenantID, productID)
	version := args.Get(1).(int64)
	if args.Get(0) == nil {
		return nil, version, args.Error(2)
	}
	return args.Get(0).(*models.Product), version, args.Error(2)
}

func (m *MockCacheService) SetProduct(ctx context.Context, tenantID uuid.UUID, product *models.Product, version int64, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, product, version, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProducts(ctx context.Context, tenantID uuid.UUID, productIDs ...uuid.UUID) error {
	args := m.Called(ctx, tenantID, productIDs)
	return args.Error(0)
}

func (m *MockCacheService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockCacheService) SetSettings(ctx context.Context, settings *models.Settings, ttl time.Duration) error {
	args := m.Called(ctx, settings, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteSettings(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) GetStatistics(ctx context.Context, tenantID uuid.UUID, window string) (*models.Statistics, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statistics), args.Error(1)
}

func (m *MockCacheService) SetStatistics(ctx context.Context, tenantID uuid.UUID, window string, stats *models.Statistics, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, window, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateStatistics(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
