package handlers

import (
	"context"
	"time"

	"storepos/internal/models"
	"storepos/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Resolve(ctx context.Context, code string, employeeID *uuid.UUID) (*models.Actor, error) {
	args := m.Called(ctx, code, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *MockSessionService) Issue(ctx context.Context, code string, employeeID *uuid.UUID) (*services.Session, error) {
	args := m.Called(ctx, code, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *MockSessionService) ResolveToken(ctx context.Context, token string) (*models.Actor, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) tenant(args mock.Arguments) (*models.Tenant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Create(ctx context.Context) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx))
}

func (m *MockTenantService) Get(ctx context.Context, code string) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx, code))
}

func (m *MockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx, id))
}

func (m *MockTenantService) RegenerateCode(ctx context.Context, code string) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx, code))
}

func (m *MockTenantService) ActivatePro(ctx context.Context, activationCode, tenantCode string) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx, activationCode, tenantCode))
}

type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) employee(args mock.Arguments) (*models.Employee, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeService) RequestJoin(ctx context.Context, tenantCode, name string) (*models.Employee, error) {
	return m.employee(m.Called(ctx, tenantCode, name))
}

func (m *MockEmployeeService) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error) {
	return m.employee(m.Called(ctx, tenantID, id))
}

func (m *MockEmployeeService) Approve(ctx context.Context, tenantID, id uuid.UUID) (*models.Employee, error) {
	return m.employee(m.Called(ctx, tenantID, id))
}

func (m *MockEmployeeService) Remove(ctx context.Context, tenantID, id uuid.UUID) (*models.EmployeeRemoval, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeRemoval), args.Error(1)
}

func (m *MockEmployeeService) SetPermission(ctx context.Context, tenantID, id uuid.UUID, permission models.Permission) (*models.Employee, error) {
	return m.employee(m.Called(ctx, tenantID, id, permission))
}

func (m *MockEmployeeService) List(ctx context.Context, tenantID uuid.UUID, status *models.EmployeeStatus) ([]*models.Employee, error) {
	args := m.Called(ctx, tenantID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Employee), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) product(args mock.Arguments) (*models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, tenantID uuid.UUID, product *models.Product) error {
	return m.Called(ctx, tenantID, product).Error(0)
}

func (m *MockProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	return m.product(m.Called(ctx, tenantID, id))
}

func (m *MockProductService) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	return m.product(m.Called(ctx, tenantID, barcode))
}

func (m *MockProductService) Update(ctx context.Context, tenantID, id uuid.UUID, patch *models.ProductUpdate) (*models.Product, error) {
	return m.product(m.Called(ctx, tenantID, id, patch))
}

func (m *MockProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockProductService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) Create(ctx context.Context, tenantID uuid.UUID, req *models.SaleRequest) (*models.Sale, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context, tenantID uuid.UUID, filter models.SaleFilter) ([]*models.Sale, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Sale), args.Error(1)
}

func (m *MockSaleService) DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) settings(args mock.Arguments) (*models.Settings, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsService) Get(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	return m.settings(m.Called(ctx, tenantID))
}

func (m *MockSettingsService) UpdateCurrency(ctx context.Context, tenantID uuid.UUID, currency string) (*models.Settings, error) {
	return m.settings(m.Called(ctx, tenantID, currency))
}

func (m *MockSettingsService) ResetProfits(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	return m.settings(m.Called(ctx, tenantID))
}

func (m *MockSettingsService) ResetAll(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, tenant *models.Tenant, dataType services.ExportDataType) (*models.ExportSnapshot, error) {
	args := m.Called(ctx, tenant, dataType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportSnapshot), args.Error(1)
}

func (m *MockExportService) PurgeExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	args := m.Called(ctx, maxAge)
	return args.Int(0), args.Error(1)
}

type MockStatistics struct {
	mock.Mock
	loc *time.Location
}

func (m *MockStatistics) Compute(ctx context.Context, tenantID uuid.UUID, filter models.StatisticsFilter) (*models.Statistics, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statistics), args.Error(1)
}

func (m *MockStatistics) Location() *time.Location {
	return m.loc
}
