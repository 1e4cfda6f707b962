package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, bucket, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockMinioService) List(ctx context.Context, bucket, prefix string) ([]StoredObject, error) {
	args := m.Called(ctx, bucket, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StoredObject), args.Error(1)
}

func (m *MockMinioService) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

type ExportServiceTestSuite struct {
	suite.Suite
	productRepo *MockProductRepository
	saleRepo    *MockSaleRepository
	storage     *MockMinioService
	service     *exportService
	tenant      *models.Tenant
	now         time.Time
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.productRepo = &MockProductRepository{}
	suite.saleRepo = &MockSaleRepository{}
	suite.storage = &MockMinioService{}
	storage := ExportStorage{Storage: suite.storage, Bucket: "exports", URLTTL: 15 * time.Minute}
	suite.service = NewExportService(suite.productRepo, suite.saleRepo, storage, zap.NewNop()).(*exportService)
	suite.now = time.Date(2024, 5, 3, 10, 30, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.tenant = &models.Tenant{ID: uuid.New(), Code: "ABC1234", IsPro: true}
}

func (suite *ExportServiceTestSuite) TearDownTest() {
	suite.productRepo.AssertExpectations(suite.T())
	suite.saleRepo.AssertExpectations(suite.T())
	suite.storage.AssertExpectations(suite.T())
}

func TestExportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}

func (suite *ExportServiceTestSuite) TestExport_RequiresPro() {
	suite.tenant.IsPro = false

	_, err := suite.service.Export(context.Background(), suite.tenant, ExportAll)

	assert.ErrorIs(suite.T(), err, common.ErrProRequired)
}

func (suite *ExportServiceTestSuite) TestExport_ProductsUploadsAndPresigns() {
	ctx := context.Background()
	products := []*models.Product{{ID: uuid.New(), Name: "Tea", Barcode: "1", Quantity: 2}}
	key := "exports/" + suite.tenant.ID.String() + "/20240503T103000Z-products.json"
	suite.productRepo.On("List", ctx, suite.tenant.ID).Return(products, nil).Once()
	suite.storage.On("Upload", ctx, "exports", key, mock.Anything, mock.AnythingOfType("int64"), "application/json").Return(nil).Once()
	suite.storage.On("GetPresignedURL", ctx, "exports", key, 15*time.Minute).Return("https://minio/exports/x", nil).Once()

	snapshot, err := suite.service.Export(ctx, suite.tenant, ExportProducts)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), products, snapshot.Products)
	assert.Nil(suite.T(), snapshot.Sales)
	assert.Equal(suite.T(), "https://minio/exports/x", snapshot.DownloadURL)
}

func (suite *ExportServiceTestSuite) TestExport_UploadFailureStillReturnsSnapshot() {
	ctx := context.Background()
	sales := []*models.Sale{{ID: uuid.New()}}
	suite.saleRepo.On("List", ctx, suite.tenant.ID, models.SaleFilter{}).Return(sales, nil).Once()
	suite.storage.On("Upload", ctx, "exports", mock.Anything, mock.Anything, mock.Anything, "application/json").Return(errors.New("minio down")).Once()

	snapshot, err := suite.service.Export(ctx, suite.tenant, ExportSales)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), sales, snapshot.Sales)
	assert.Empty(suite.T(), snapshot.DownloadURL)
}

func (suite *ExportServiceTestSuite) TestPurgeExpired_DeletesOldObjects() {
	ctx := context.Background()
	objects := []StoredObject{
		{Key: "exports/a/old.json", LastModified: suite.now.Add(-48 * time.Hour)},
		{Key: "exports/a/new.json", LastModified: suite.now.Add(-time.Hour)},
	}
	suite.storage.On("List", ctx, "exports", "exports/").Return(objects, nil).Once()
	suite.storage.On("Delete", ctx, "exports", "exports/a/old.json").Return(nil).Once()

	removed, err := suite.service.PurgeExpired(ctx, 24*time.Hour)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, removed)
}

func TestPurgeExpired_WithoutStorage(t *testing.T) {
	service := NewExportService(nil, nil, ExportStorage{}, zap.NewNop())

	removed, err := service.PurgeExpired(context.Background(), time.Hour)

	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func TestParseExportDataType(t *testing.T) {
	for _, s := range []string{"products", "sales", "all"} {
		dt, err := ParseExportDataType(s)
		assert.NoError(t, err)
		assert.Equal(t, ExportDataType(s), dt)
	}
	dt, err := ParseExportDataType("")
	assert.NoError(t, err)
	assert.Equal(t, ExportAll, dt)

	_, err = ParseExportDataType(strings.ToUpper("csv"))
	assert.ErrorIs(t, err, common.ErrInvalidDataType)
}
