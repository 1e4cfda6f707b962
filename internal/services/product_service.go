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

const productCacheTTL = 15 * time.Minute

type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, patch *models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewProductService(productRepo repositories.ProductRepository, cacheService caching.CacheService, m *metrics.Metrics, logger *zap.Logger) ProductService {
	return &productService{
		productRepo:  productRepo,
		cacheService: cacheService,
		metrics:      m,
		logger:       logger,
	}
}

func (s *productService) Create(ctx context.Context, tenantID uuid.UUID, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Barcode = strings.TrimSpace(product.Barcode)
	if product.Name == "" {
		return common.ErrNameRequired
	}
	if product.Barcode == "" {
		return common.ErrBarcodeRequired
	}
	if product.PurchasePrice < 0 || product.SellPrice < 0 {
		return common.ErrInvalidPrice
	}
	if product.Quantity < 0 || product.Quantity > models.MaxQuantity {
		return common.ErrInvalidQuantity
	}

	product.ID = uuid.New()
	product.TenantID = tenantID
	if err := s.productRepo.Create(ctx, product, models.FreeProductLimit); err != nil {
		return err
	}
	s.metrics.RecordProductOperation("create")
	return nil
}

func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	// Try to get from cache first
	cached, version, err := s.cacheService.GetProduct(ctx, tenantID, id)
	if cached != nil {
		return cached, nil
	}
	if err != nil {
		s.logger.Warn("product cache read failed", zap.String("product_id", id.String()), zap.Error(err))
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetProduct(ctx, tenantID, product, version, productCacheTTL); err != nil {
		s.logger.Warn("product cache write failed", zap.String("product_id", id.String()), zap.Error(err))
	}
	return product, nil
}

func (s *productService) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, common.ErrBarcodeRequired
	}
	return s.productRepo.GetByBarcode(ctx, tenantID, barcode)
}

func (s *productService) Update(ctx context.Context, tenantID, id uuid.UUID, patch *models.ProductUpdate) (*models.Product, error) {
	if patch == nil || patch.Empty() {
		return nil, common.ErrNoDataProvided
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, common.ErrNameRequired
		}
		patch.Name = &name
	}
	if (patch.PurchasePrice != nil && *patch.PurchasePrice < 0) || (patch.SellPrice != nil && *patch.SellPrice < 0) {
		return nil, common.ErrInvalidPrice
	}
	if patch.Quantity != nil && (*patch.Quantity < 0 || *patch.Quantity > models.MaxQuantity) {
		return nil, common.ErrInvalidQuantity
	}

	if patch.Barcode != nil {
		existing, err := s.productRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(*patch.Barcode) != existing.Barcode {
			return nil, common.ErrBarcodeImmutable
		}
		patch.Barcode = nil
		if patch.Empty() {
			return existing, nil
		}
	}

	product, err := s.productRepo.Update(ctx, tenantID, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID, id)
	s.metrics.RecordProductOperation("update")
	return product, nil
}

func (s *productService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID, id)
	s.metrics.RecordProductOperation("delete")
	return nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.List(ctx, tenantID)
}

func (s *productService) invalidate(ctx context.Context, tenantID, id uuid.UUID) {
	if err := s.cacheService.DeleteProducts(ctx, tenantID, id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}
