package jobs

import (
	"context"

	"storepos/internal/metrics"
	"storepos/internal/models"

	"go.uber.org/zap"
)

// LowStockSource reports, per tenant, how many products are below a
// threshold. repositories.ProductRepository satisfies it.
type LowStockSource interface {
	LowStockSummary(ctx context.Context, threshold int) ([]*models.TenantStockSummary, error)
}

type StockAlertService struct {
	source  LowStockSource
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewStockAlertService(source LowStockSource, m *metrics.Metrics, logger *zap.Logger) *StockAlertService {
	return &StockAlertService{source: source, metrics: m, logger: logger.Named("stock-alerts")}
}

// Scan counts low stock products across all tenants, publishes the counts
// as a gauge and logs every tenant that has any.
func (a *StockAlertService) Scan(ctx context.Context) ([]*models.TenantStockSummary, error) {
	summaries, err := a.source.LowStockSummary(ctx, models.LowStockThreshold)
	if err != nil {
		a.logger.Error("low stock scan failed", zap.Error(err))
		return nil, err
	}

	counts := make(map[string]int, len(summaries))
	for _, s := range summaries {
		counts[s.TenantID.String()] = s.LowStockCount
		a.logger.Warn("tenant has products low on stock",
			zap.String("tenant_id", s.TenantID.String()),
			zap.Int("products", s.LowStockCount),
			zap.Int("threshold", models.LowStockThreshold),
		)
	}
	a.metrics.SetLowStock(counts)

	a.logger.Info("low stock scan completed", zap.Int("tenants", len(summaries)))
	return summaries, nil
}
