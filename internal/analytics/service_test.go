package analytics

import (
	"context"
	"testing"
	"time"

	"storepos/internal/caching"
	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *models.Sale, lines []models.SaleItemRequest) error {
	return m.Called(ctx, sale, lines).Error(0)
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
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) MarkProfitsReset(ctx context.Context, tenantID uuid.UUID, at time.Time) (*models.Settings, error) {
	args := m.Called(ctx, tenantID, at)
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) ResetTenantData(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func sale(createdAt time.Time, items ...models.SaleItem) *models.Sale {
	s := &models.Sale{ID: uuid.New(), CreatedAt: createdAt, Items: items}
	s.Recalculate()
	return s
}

type StatisticsServiceTestSuite struct {
	suite.Suite
	saleRepo     *MockSaleRepository
	settingsRepo *MockSettingsRepository
	service      *StatisticsService
	tenantID     uuid.UUID
	now          time.Time
}

func (suite *StatisticsServiceTestSuite) SetupTest() {
	suite.saleRepo = &MockSaleRepository{}
	suite.settingsRepo = &MockSettingsRepository{}
	suite.service = NewStatisticsService(suite.saleRepo, suite.settingsRepo, caching.NewNoopCacheService(), time.UTC, time.Minute, zap.NewNop())
	// Wednesday
	suite.now = time.Date(2024, 5, 15, 13, 45, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.tenantID = uuid.New()
}

func (suite *StatisticsServiceTestSuite) TearDownTest() {
	suite.saleRepo.AssertExpectations(suite.T())
	suite.settingsRepo.AssertExpectations(suite.T())
}

func TestStatisticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatisticsServiceTestSuite))
}

func (suite *StatisticsServiceTestSuite) TestCompute_Daily() {
	ctx := context.Background()
	start := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	tea := uuid.New()
	sales := []*models.Sale{
		sale(start.Add(time.Hour), models.NewSaleItem(tea, "Tea", 2, 3, 2)),
		sale(start.Add(2*time.Hour), models.NewSaleItem(tea, "Tea", 1, 3, 2), models.NewSaleItem(uuid.New(), "Bread", 4, 1, 0.5)),
	}
	suite.settingsRepo.On("Get", ctx, suite.tenantID).Return(models.DefaultSettings(suite.tenantID), nil).Once()
	suite.saleRepo.On("List", ctx, suite.tenantID, models.SaleFilter{From: &start, To: &end}).Return(sales, nil).Once()

	stats, err := suite.service.Compute(ctx, suite.tenantID, models.StatisticsFilter{Type: models.FilterDaily})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 13.0, stats.TotalSales)
	assert.Equal(suite.T(), 5.0, stats.TotalProfit)
	assert.Equal(suite.T(), 7, stats.TotalProducts)
	assert.Equal(suite.T(), []models.ProductSold{{Name: "Bread", Quantity: 4}, {Name: "Tea", Quantity: 3}}, stats.ProductsSold)
	assert.Equal(suite.T(), start, stats.WindowStart)
}

func (suite *StatisticsServiceTestSuite) TestCompute_EmptyWindow() {
	ctx := context.Background()
	suite.settingsRepo.On("Get", ctx, suite.tenantID).Return(models.DefaultSettings(suite.tenantID), nil).Once()
	suite.saleRepo.On("List", ctx, suite.tenantID, mock.Anything).Return([]*models.Sale{}, nil).Once()

	stats, err := suite.service.Compute(ctx, suite.tenantID, models.StatisticsFilter{Type: models.FilterMonthly})

	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), stats.TotalSales)
	assert.Zero(suite.T(), stats.TotalProfit)
	assert.Zero(suite.T(), stats.TotalProducts)
	assert.Empty(suite.T(), stats.ProductsSold)
	assert.NotNil(suite.T(), stats.ProductsSold)
}

func (suite *StatisticsServiceTestSuite) TestCompute_InvalidFilter() {
	_, err := suite.service.Compute(context.Background(), suite.tenantID, models.StatisticsFilter{Type: "yearly"})
	assert.ErrorIs(suite.T(), err, common.ErrInvalidFilter)
}

func TestWindow(t *testing.T) {
	damascus := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2024, 5, 15, 1, 0, 0, 0, damascus) // Wednesday

	start, end, err := Window(models.StatisticsFilter{Type: models.FilterWeekly}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, damascus), start)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, damascus), end)

	start, end, err = Window(models.StatisticsFilter{Type: models.FilterMonthly}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, damascus), start)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, damascus), end)

	sunday := time.Date(2024, 5, 19, 23, 0, 0, 0, damascus)
	start, _, err = Window(models.StatisticsFilter{Type: models.FilterWeekly}, sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, damascus), start)
}

func TestWindow_Custom(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	start, end, err := Window(models.StatisticsFilter{Type: models.FilterCustom, Start: &a, End: &b}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, a, start)
	assert.Equal(t, b, end)

	_, _, err = Window(models.StatisticsFilter{Type: models.FilterCustom, Start: &b, End: &a}, time.Now())
	assert.ErrorIs(t, err, common.ErrInvalidDateRange)

	_, _, err = Window(models.StatisticsFilter{Type: models.FilterCustom, Start: &a}, time.Now())
	assert.ErrorIs(t, err, common.ErrInvalidDateRange)
}

func TestWindowKey_SubSecondBoundsDiffer(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.NotEqual(t,
		windowKey(models.FilterCustom, start, end),
		windowKey(models.FilterCustom, start, end.Add(500*time.Millisecond)))
	assert.Equal(t, windowKey(models.FilterDaily, start, end), windowKey(models.FilterDaily, start, end))
}

func TestAggregate_ProfitBaseline(t *testing.T) {
	baseline := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	id := uuid.New()
	sales := []*models.Sale{
		sale(baseline.Add(-time.Hour), models.NewSaleItem(id, "Tea", 1, 10, 4)),
		sale(baseline, models.NewSaleItem(id, "Tea", 1, 10, 4)),
	}

	stats := Aggregate(sales, &baseline)

	assert.Equal(t, 20.0, stats.TotalSales)
	assert.Equal(t, 6.0, stats.TotalProfit)
	assert.Equal(t, 2, stats.TotalProducts)
}
