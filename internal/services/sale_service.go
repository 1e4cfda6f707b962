package services

import (
	"context"
	"strings"
	"time"

	"storepos/internal/caching"
	"storepos/internal/common"
	"storepos/internal/metrics"
	"storepos/internal/models"
	"storepos/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SaleService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *models.SaleRequest) (*models.Sale, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, tenantID uuid.UUID, filter models.SaleFilter) ([]*models.Sale, error)
	// DeleteAll clears the ledger. Stock is not restored.
	DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type saleService struct {
	saleRepo     repositories.SaleRepository
	cacheService caching.CacheService
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

func NewSaleService(saleRepo repositories.SaleRepository, cacheService caching.CacheService, m *metrics.Metrics, logger *zap.Logger) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		cacheService: cacheService,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *saleService) Create(ctx context.Context, tenantID uuid.UUID, req *models.SaleRequest) (*models.Sale, error) {
	if req == nil || len(req.Items) == 0 {
		s.metrics.RecordSaleFailure(common.ErrEmptySale.Code)
		return nil, common.ErrEmptySale
	}
	if err := s.validateLines(req.Items); err != nil {
		return nil, err
	}
	// Each line is at most MaxQuantity, so merged sums cannot wrap an int64.
	lines := models.MergeSaleLines(req.Items)
	if err := s.validateLines(lines); err != nil {
		return nil, err
	}

	sale := &models.Sale{
		ID:        uuid.New(),
		TenantID:  tenantID,
		CreatedAt: s.now().UTC(),
	}
	if req.EmployeeName != nil {
		if name := strings.TrimSpace(*req.EmployeeName); name != "" {
			sale.EmployeeName = &name
		}
	}

	if err := s.saleRepo.Create(ctx, sale, lines); err != nil {
		if de, ok := common.AsError(err); ok {
			s.metrics.RecordSaleFailure(de.Code)
		}
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	if err := s.cacheService.DeleteProducts(ctx, tenantID, ids...); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.String("sale_id", sale.ID.String()), zap.Error(err))
	}
	s.invalidateStatistics(ctx, tenantID)

	s.metrics.RecordSale(sale.TotalAmount)
	s.logger.Info("sale recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.Int("total_quantity", sale.TotalQuantity),
		zap.Float64("total_amount", sale.TotalAmount),
	)
	return sale, nil
}

func (s *saleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Sale, error) {
	return s.saleRepo.GetByID(ctx, tenantID, id)
}

func (s *saleService) List(ctx context.Context, tenantID uuid.UUID, filter models.SaleFilter) ([]*models.Sale, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, common.ErrInvalidDateRange
	}
	return s.saleRepo.List(ctx, tenantID, filter)
}

func (s *saleService) DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	deleted, err := s.saleRepo.DeleteAll(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	s.invalidateStatistics(ctx, tenantID)
	s.logger.Info("sales cleared", zap.String("tenant_id", tenantID.String()), zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *saleService) invalidateStatistics(ctx context.Context, tenantID uuid.UUID) {
	if err := s.cacheService.InvalidateStatistics(ctx, tenantID); err != nil {
		s.logger.Warn("statistics cache invalidation failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}

func (s *saleService) validateLines(items []models.SaleItemRequest) error {
	for _, item := range items {
		if item.Quantity <= 0 || item.Quantity > models.MaxQuantity {
			s.metrics.RecordSaleFailure(common.ErrInvalidQuantity.Code)
			return common.ErrInvalidQuantity.WithDetail("product_id", item.ProductID.String())
		}
	}
	return nil
}
