package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"storepos/internal/caching"
	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatisticsService rolls up the sale ledger over calendar windows.
type StatisticsService struct {
	saleRepo     repositories.SaleRepository
	settingsRepo repositories.SettingsRepository
	cacheService caching.CacheService
	location     *time.Location
	cacheTTL     time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewStatisticsService(
	saleRepo repositories.SaleRepository,
	settingsRepo repositories.SettingsRepository,
	cacheService caching.CacheService,
	location *time.Location,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *StatisticsService {
	if location == nil {
		location = time.UTC
	}
	return &StatisticsService{
		saleRepo:     saleRepo,
		settingsRepo: settingsRepo,
		cacheService: cacheService,
		location:     location,
		cacheTTL:     cacheTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// Location is the zone calendar windows are computed in.
func (s *StatisticsService) Location() *time.Location {
	return s.location
}

// Compute returns the statistics of tenantID for filter.
func (s *StatisticsService) Compute(ctx context.Context, tenantID uuid.UUID, filter models.StatisticsFilter) (*models.Statistics, error) {
	start, end, err := Window(filter, s.now().In(s.location))
	if err != nil {
		return nil, err
	}

	key := windowKey(filter.Type, start, end)
	if cached, err := s.cacheService.GetStatistics(ctx, tenantID, key); cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("statistics cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}

	settings, err := s.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.List(ctx, tenantID, models.SaleFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}

	stats := Aggregate(sales, settings.ProfitsResetAt)
	stats.WindowStart = start
	stats.WindowEnd = end

	if err := s.cacheService.SetStatistics(ctx, tenantID, key, stats, s.cacheTTL); err != nil {
		s.logger.Warn("statistics cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	return stats, nil
}

// Window resolves filter to a half-open [start, end) interval. Calendar
// windows are taken in now's location; weeks start on Monday.
func Window(filter models.StatisticsFilter, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch filter.Type {
	case models.FilterDaily, "":
		return today, today.AddDate(0, 0, 1), nil
	case models.FilterWeekly:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), nil
	case models.FilterMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	case models.FilterCustom:
		if filter.Start == nil || filter.End == nil || !filter.Start.Before(*filter.End) {
			return time.Time{}, time.Time{}, common.ErrInvalidDateRange
		}
		return *filter.Start, *filter.End, nil
	}
	return time.Time{}, time.Time{}, common.ErrInvalidFilter
}

// Aggregate sums sales. Profit of sales created before baseline counts as
// zero; amounts and quantities are unaffected.
func Aggregate(sales []*models.Sale, baseline *time.Time) *models.Statistics {
	stats := &models.Statistics{ProductsSold: make([]models.ProductSold, 0)}
	byName := make(map[string]int)

	var amount, profit float64
	for _, sale := range sales {
		amount += sale.TotalAmount
		if baseline == nil || !sale.CreatedAt.Before(*baseline) {
			profit += sale.Profit
		}
		stats.TotalProducts += sale.TotalQuantity
		for _, item := range sale.Items {
			byName[item.ProductName] += item.Quantity
		}
	}
	stats.TotalSales = models.RoundMoney(amount)
	stats.TotalProfit = models.RoundMoney(profit)

	for name, quantity := range byName {
		stats.ProductsSold = append(stats.ProductsSold, models.ProductSold{Name: name, Quantity: quantity})
	}
	sort.Slice(stats.ProductsSold, func(i, j int) bool {
		return stats.ProductsSold[i].Name < stats.ProductsSold[j].Name
	})
	return stats
}

// windowKey identifies a statistics window in the cache at full precision,
// so custom bounds inside the same second never share an entry.
func windowKey(filterType models.StatisticsFilterType, start, end time.Time) string {
	return fmt.Sprintf("%s:%d:%d", filterType, start.UnixNano(), end.UnixNano())
}
