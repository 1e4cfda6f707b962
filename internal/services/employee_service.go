package services

import (
	"context"
	"strings"

	"storepos/internal/common"
	"storepos/internal/metrics"
	"storepos/internal/models"
	"storepos/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EmployeeService interface {
	RequestJoin(ctx context.Context, tenantCode, name string) (*models.Employee, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error)
	Approve(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error)
	// Remove rejects a pending request or removes an approved employee.
	Remove(ctx context.Context, tenantID, id uuid.UUID) (*models.EmployeeRemoval, error)
	SetPermission(ctx context.Context, tenantID, id uuid.UUID, permission models.Permission) (*models.Employee, error)
	List(ctx context.Context, tenantID uuid.UUID, status *models.EmployeeStatus) ([]*models.Employee, error)
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	tenantRepo   repositories.TenantRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewEmployeeService(employeeRepo repositories.EmployeeRepository, tenantRepo repositories.TenantRepository, m *metrics.Metrics, logger *zap.Logger) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo, tenantRepo: tenantRepo, metrics: m, logger: logger}
}

func (s *employeeService) RequestJoin(ctx context.Context, tenantCode, name string) (*models.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrNameRequired
	}
	code := NormalizeCode(tenantCode)
	if code == "" {
		return nil, common.ErrInvalidManagerCode
	}
	tenant, err := s.tenantRepo.GetByCode(ctx, code)
	if common.IsKind(err, common.KindNotFound) {
		return nil, common.ErrInvalidManagerCode
	}
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		Name:        name,
		Status:      models.EmployeeStatusPending,
		Permissions: models.PermissionSalesOnly,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	s.metrics.RecordEmployeeOperation("join_request")
	return employee, nil
}

func (s *employeeService) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error) {
	return s.employeeRepo.GetByID(ctx, tenantID, id)
}

func (s *employeeService) Approve(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error) {
	current, err := s.employeeRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case models.EmployeeStatusApproved:
		return nil, common.ErrEmployeeApproved
	case models.EmployeeStatusRemoved:
		return nil, common.ErrEmployeeNotFound
	}

	employee, err := s.employeeRepo.UpdateStatus(ctx, tenantID, id, current.Status, models.EmployeeStatusApproved)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordEmployeeOperation("approve")
	return employee, nil
}

func (s *employeeService) Remove(ctx context.Context, tenantID, id uuid.UUID) (*models.EmployeeRemoval, error) {
	current, err := s.employeeRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(models.EmployeeStatusRemoved) {
		return nil, common.ErrEmployeeNotFound
	}

	employee, err := s.employeeRepo.UpdateStatus(ctx, tenantID, id, current.Status, models.EmployeeStatusRemoved)
	if err != nil {
		return nil, err
	}

	operation := "remove"
	if current.Status == models.EmployeeStatusPending {
		operation = "reject"
	}
	s.metrics.RecordEmployeeOperation(operation)
	s.logger.Info("employee status changed",
		zap.String("operation", operation),
		zap.String("tenant_id", tenantID.String()),
		zap.String("employee_id", id.String()),
		zap.String("previous_status", string(current.Status)),
	)
	return &models.EmployeeRemoval{Employee: employee, PreviousStatus: current.Status}, nil
}

func (s *employeeService) SetPermission(ctx context.Context, tenantID, id uuid.UUID, permission models.Permission) (*models.Employee, error) {
	if !permission.Valid() {
		return nil, common.ErrInvalidPermission
	}
	employee, err := s.employeeRepo.UpdatePermission(ctx, tenantID, id, permission)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordEmployeeOperation("set_permission")
	return employee, nil
}

func (s *employeeService) List(ctx context.Context, tenantID uuid.UUID, status *models.EmployeeStatus) ([]*models.Employee, error) {
	if status != nil && !status.Valid() {
		return nil, common.ErrInvalidStatus
	}
	return s.employeeRepo.List(ctx, tenantID, status)
}
