package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExportPurger deletes stored export snapshots older than maxAge.
type ExportPurger interface {
	PurgeExpired(ctx context.Context, maxAge time.Duration) (int, error)
}

type ExportRetention struct {
	purger ExportPurger
	maxAge time.Duration
	logger *zap.Logger
}

func NewExportRetention(purger ExportPurger, maxAge time.Duration, logger *zap.Logger) *ExportRetention {
	return &ExportRetention{purger: purger, maxAge: maxAge, logger: logger.Named("export-retention")}
}

func (r *ExportRetention) Run(ctx context.Context) error {
	removed, err := r.purger.PurgeExpired(ctx, r.maxAge)
	if err != nil {
		r.logger.Error("export retention failed", zap.Int("removed", removed), zap.Error(err))
		return err
	}
	if removed > 0 {
		r.logger.Info("expired exports removed", zap.Int("removed", removed), zap.Duration("max_age", r.maxAge))
	}
	return nil
}
