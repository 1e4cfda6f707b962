package repositories

import (
	"context"
	"fmt"
	"time"

	"storepos/internal/models"

	"github.com/google/uuid"
)

type SettingsRepository interface {
	// Get returns stored settings or the defaults when none were saved.
	Get(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error)
	SetCurrency(ctx context.Context, tenantID uuid.UUID, currency string) (*models.Settings, error)
	MarkProfitsReset(ctx context.Context, tenantID uuid.UUID, at time.Time) (*models.Settings, error)
	// ResetTenantData removes products, sales, employees and settings of a
	// tenant. The tenant row and its code survive.
	ResetTenantData(ctx context.Context, tenantID uuid.UUID) error
}

type settingsRepo struct {
	db DBTX
}

func NewSettingsRepo(db DBTX) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	s := &models.Settings{TenantID: tenantID}
	err := r.db.QueryRow(ctx, `SELECT currency, profits_reset_at, updated_at FROM settings WHERE tenant_id = $1`, tenantID).
		Scan(&s.Currency, &s.ProfitsResetAt, &s.UpdatedAt)
	if isNoRows(err) {
		return models.DefaultSettings(tenantID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) SetCurrency(ctx context.Context, tenantID uuid.UUID, currency string) (*models.Settings, error) {
	query := `
		INSERT INTO settings (tenant_id, currency, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (tenant_id) DO UPDATE SET currency = EXCLUDED.currency, updated_at = NOW()
		RETURNING currency, profits_reset_at, updated_at
	`
	s := &models.Settings{TenantID: tenantID}
	if err := r.db.QueryRow(ctx, query, tenantID, currency).Scan(&s.Currency, &s.ProfitsResetAt, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("save currency: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) MarkProfitsReset(ctx context.Context, tenantID uuid.UUID, at time.Time) (*models.Settings, error) {
	query := `
		INSERT INTO settings (tenant_id, currency, profits_reset_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tenant_id) DO UPDATE SET profits_reset_at = EXCLUDED.profits_reset_at, updated_at = NOW()
		RETURNING currency, profits_reset_at, updated_at
	`
	s := &models.Settings{TenantID: tenantID}
	if err := r.db.QueryRow(ctx, query, tenantID, models.DefaultCurrency, at).Scan(&s.Currency, &s.ProfitsResetAt, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("reset profits: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) ResetTenantData(ctx context.Context, tenantID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer rollback(ctx, tx)

	// sale_items go with their sales (ON DELETE CASCADE).
	for _, table := range []string{"sales", "products", "employees", "settings"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE tenant_id = $1`, tenantID); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
