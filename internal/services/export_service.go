package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/repositories"

	"go.uber.org/zap"
)

const exportPrefix = "exports/"

type ExportDataType string

const (
	ExportProducts ExportDataType = "products"
	ExportSales    ExportDataType = "sales"
	ExportAll      ExportDataType = "all"
)

func ParseExportDataType(s string) (ExportDataType, error) {
	switch t := ExportDataType(s); t {
	case ExportProducts, ExportSales, ExportAll:
		return t, nil
	case "":
		return ExportAll, nil
	}
	return "", common.ErrInvalidDataType
}

type ExportService interface {
	Export(ctx context.Context, tenant *models.Tenant, dataType ExportDataType) (*models.ExportSnapshot, error)
	// PurgeExpired deletes stored exports older than maxAge.
	PurgeExpired(ctx context.Context, maxAge time.Duration) (int, error)
}

// ExportStorage is where snapshots are uploaded. A nil Storage disables
// uploads.
type ExportStorage struct {
	Storage MinioService
	Bucket  string
	URLTTL  time.Duration
}

type exportService struct {
	productRepo repositories.ProductRepository
	saleRepo    repositories.SaleRepository
	storage     ExportStorage
	logger      *zap.Logger
	now         func() time.Time
}

func NewExportService(productRepo repositories.ProductRepository, saleRepo repositories.SaleRepository, storage ExportStorage, logger *zap.Logger) ExportService {
	return &exportService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		storage:     storage,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, tenant *models.Tenant, dataType ExportDataType) (*models.ExportSnapshot, error) {
	if !tenant.IsPro {
		return nil, common.ErrProRequired
	}

	snapshot := &models.ExportSnapshot{ManagerCode: tenant.Code, GeneratedAt: s.now().UTC()}
	if dataType == ExportProducts || dataType == ExportAll {
		products, err := s.productRepo.List(ctx, tenant.ID)
		if err != nil {
			return nil, err
		}
		snapshot.Products = products
	}
	if dataType == ExportSales || dataType == ExportAll {
		sales, err := s.saleRepo.List(ctx, tenant.ID, models.SaleFilter{})
		if err != nil {
			return nil, err
		}
		snapshot.Sales = sales
	}

	if s.storage.Storage != nil {
		url, err := s.upload(ctx, tenant, dataType, snapshot)
		if err != nil {
			s.logger.Warn("export upload failed", zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
		} else {
			snapshot.DownloadURL = url
		}
	}
	return snapshot, nil
}

func (s *exportService) upload(ctx context.Context, tenant *models.Tenant, dataType ExportDataType, snapshot *models.ExportSnapshot) (string, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s%s/%s-%s.json", exportPrefix, tenant.ID, snapshot.GeneratedAt.Format("20060102T150405Z"), dataType)
	if err := s.storage.Storage.Upload(ctx, s.storage.Bucket, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return "", err
	}
	return s.storage.Storage.GetPresignedURL(ctx, s.storage.Bucket, key, s.storage.URLTTL)
}

func (s *exportService) PurgeExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	if s.storage.Storage == nil {
		return 0, nil
	}
	objects, err := s.storage.Storage.List(ctx, s.storage.Bucket, exportPrefix)
	if err != nil {
		return 0, fmt.Errorf("list exports: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := s.storage.Storage.Delete(ctx, s.storage.Bucket, obj.Key); err != nil {
			return removed, fmt.Errorf("delete export %s: %w", obj.Key, err)
		}
		removed++
	}
	return removed, nil
}
