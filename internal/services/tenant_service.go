package services

import (
	"context"
	"errors"
	"strings"

	"storepos/internal/common"
	"storepos/internal/metrics"
	"storepos/internal/models"
	"storepos/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
)

// maxCodeAttempts bounds retries when a generated manager code collides.
const maxCodeAttempts = 10

type TenantService interface {
	Create(ctx context.Context) (*models.Tenant, error)
	Get(ctx context.Context, code string) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	RegenerateCode(ctx context.Context, code string) (*models.Tenant, error)
	ActivatePro(ctx context.Context, activationCode, tenantCode string) (*models.Tenant, error)
}

// CodeGenerator returns a candidate manager code.
type CodeGenerator func() string

// RandomManagerCode draws an uppercase alphanumeric code.
func RandomManagerCode() string {
	return random.String(models.ManagerCodeLength, random.Uppercase, random.Numeric)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	generate   CodeGenerator
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepository, generate CodeGenerator, m *metrics.Metrics, logger *zap.Logger) TenantService {
	if generate == nil {
		generate = RandomManagerCode
	}
	return &tenantService{tenantRepo: tenantRepo, generate: generate, metrics: m, logger: logger}
}

// NormalizeCode trims and upper-cases a client supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *tenantService) Create(ctx context.Context) (*models.Tenant, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		tenant := &models.Tenant{ID: uuid.New(), Code: s.generate()}
		err := s.tenantRepo.Create(ctx, tenant)
		if errors.Is(err, repositories.ErrDuplicateKey) {
			s.logger.Debug("manager code collision", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		s.metrics.RecordTenantOperation("create")
		s.logger.Info("tenant created", zap.String("tenant_id", tenant.ID.String()))
		return tenant, nil
	}
	return nil, common.ErrCodeGenerationFailed
}

func (s *tenantService) Get(ctx context.Context, code string) (*models.Tenant, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, common.ErrManagerNotFound
	}
	return s.tenantRepo.GetByCode(ctx, code)
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

func (s *tenantService) RegenerateCode(ctx context.Context, code string) (*models.Tenant, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, common.ErrManagerNotFound
	}
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		tenant, err := s.tenantRepo.RotateCode(ctx, code, s.generate())
		if errors.Is(err, repositories.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.metrics.RecordTenantOperation("regenerate_code")
		s.logger.Info("manager code rotated", zap.String("tenant_id", tenant.ID.String()))
		return tenant, nil
	}
	return nil, common.ErrCodeGenerationFailed
}

func (s *tenantService) ActivatePro(ctx context.Context, activationCode, tenantCode string) (*models.Tenant, error) {
	activationCode = strings.TrimSpace(activationCode)
	if activationCode == "" {
		return nil, common.ErrInvalidCode
	}
	tenantCode = NormalizeCode(tenantCode)
	if tenantCode == "" {
		return nil, common.ErrManagerNotFound
	}

	tenant, err := s.tenantRepo.ActivatePro(ctx, activationCode, tenantCode)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTenantOperation("activate_pro")
	s.logger.Info("tenant upgraded to pro", zap.String("tenant_id", tenant.ID.String()))
	return tenant, nil
}
