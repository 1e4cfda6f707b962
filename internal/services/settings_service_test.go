package services

import (
	"context"
	"testing"
	"time"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type SettingsServiceTestSuite struct {
	suite.Suite
	settingsRepo *MockSettingsRepository
	cache        *MockCacheService
	service      *settingsService
	tenantID     uuid.UUID
	now          time.Time
}

func (suite *SettingsServiceTestSuite) SetupTest() {
	suite.settingsRepo = &MockSettingsRepository{}
	suite.cache = &MockCacheService{}
	suite.service = NewSettingsService(suite.settingsRepo, suite.cache, zap.NewNop()).(*settingsService)
	suite.now = time.Date(2024, 5, 3, 10, 30, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.tenantID = uuid.New()
}

func (suite *SettingsServiceTestSuite) TearDownTest() {
	suite.settingsRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}

func (suite *SettingsServiceTestSuite) TestGet_DefaultsCached() {
	ctx := context.Background()
	defaults := models.DefaultSettings(suite.tenantID)
	suite.cache.On("GetSettings", ctx, suite.tenantID).Return(nil, nil).Once()
	suite.settingsRepo.On("Get", ctx, suite.tenantID).Return(defaults, nil).Once()
	suite.cache.On("SetSettings", ctx, defaults, settingsCacheTTL).Return(nil).Once()

	settings, err := suite.service.Get(ctx, suite.tenantID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DefaultCurrency, settings.Currency)
}

func (suite *SettingsServiceTestSuite) TestUpdateCurrency_Unsupported() {
	_, err := suite.service.UpdateCurrency(context.Background(), suite.tenantID, "£")
	assert.ErrorIs(suite.T(), err, common.ErrInvalidCurrency)
}

func (suite *SettingsServiceTestSuite) TestUpdateCurrency_Success() {
	ctx := context.Background()
	saved := &models.Settings{TenantID: suite.tenantID, Currency: "$"}
	suite.settingsRepo.On("SetCurrency", ctx, suite.tenantID, "$").Return(saved, nil).Once()
	suite.cache.On("SetSettings", ctx, saved, settingsCacheTTL).Return(nil).Once()

	settings, err := suite.service.UpdateCurrency(ctx, suite.tenantID, " $ ")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "$", settings.Currency)
}

func (suite *SettingsServiceTestSuite) TestResetProfits_SetsBaseline() {
	ctx := context.Background()
	baseline := suite.now
	saved := &models.Settings{TenantID: suite.tenantID, Currency: models.DefaultCurrency, ProfitsResetAt: &baseline}
	suite.settingsRepo.On("MarkProfitsReset", ctx, suite.tenantID, suite.now).Return(saved, nil).Once()
	suite.cache.On("SetSettings", ctx, saved, settingsCacheTTL).Return(nil).Once()
	suite.cache.On("InvalidateStatistics", ctx, suite.tenantID).Return(nil).Once()

	settings, err := suite.service.ResetProfits(ctx, suite.tenantID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.now, *settings.ProfitsResetAt)
}

func (suite *SettingsServiceTestSuite) TestResetAll_ClearsTenantCache() {
	ctx := context.Background()
	suite.settingsRepo.On("ResetTenantData", ctx, suite.tenantID).Return(nil).Once()
	suite.cache.On("InvalidateTenantCache", ctx, suite.tenantID).Return(nil).Once()

	assert.NoError(suite.T(), suite.service.ResetAll(ctx, suite.tenantID))
}
