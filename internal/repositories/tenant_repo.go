package repositories

import (
	"context"
	"fmt"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByCode(ctx context.Context, code string) (*models.Tenant, error)
	RotateCode(ctx context.Context, oldCode, newCode string) (*models.Tenant, error)
	ActivatePro(ctx context.Context, activationCode, tenantCode string) (*models.Tenant, error)
}

type tenantRepo struct {
	db DBTX
}

func NewTenantRepo(db DBTX) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, code, is_pro, activation_code, created_at, updated_at`

func scanTenant(row interface{ Scan(...any) error }) (*models.Tenant, error) {
	t := &models.Tenant{}
	if err := row.Scan(&t.ID, &t.Code, &t.IsPro, &t.ActivationCode, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, code, is_pro, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, tenant.ID, tenant.Code, tenant.IsPro).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	tenant, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, common.ErrManagerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return tenant, nil
}

func (r *tenantRepo) GetByCode(ctx context.Context, code string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE code = $1`
	tenant, err := scanTenant(r.db.QueryRow(ctx, query, code))
	if isNoRows(err) {
		return nil, common.ErrManagerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant by code: %w", err)
	}
	return tenant, nil
}

// RotateCode swaps the public alias in a single statement. Rows owned by the
// tenant reference its id, so nothing else has to change.
func (r *tenantRepo) RotateCode(ctx context.Context, oldCode, newCode string) (*models.Tenant, error) {
	query := `
		UPDATE tenants SET code = $1, updated_at = NOW()
		WHERE code = $2
		RETURNING ` + tenantColumns
	tenant, err := scanTenant(r.db.QueryRow(ctx, query, newCode, oldCode))
	switch {
	case isNoRows(err):
		return nil, common.ErrManagerNotFound
	case isUniqueViolation(err):
		return nil, ErrDuplicateKey
	case err != nil:
		return nil, fmt.Errorf("rotate tenant code: %w", err)
	}
	return tenant, nil
}

func (r *tenantRepo) ActivatePro(ctx context.Context, activationCode, tenantCode string) (*models.Tenant, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin activation: %w", err)
	}
	defer rollback(ctx, tx)

	if err := lockActivationCode(ctx, tx, activationCode); err != nil {
		return nil, err
	}

	var tenantID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM tenants WHERE code = $1 FOR UPDATE`, tenantCode).Scan(&tenantID)
	if isNoRows(err) {
		return nil, common.ErrManagerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock tenant: %w", err)
	}

	if err := consumeActivationCode(ctx, tx, activationCode, tenantID); err != nil {
		return nil, err
	}

	query := `
		UPDATE tenants SET is_pro = TRUE, activation_code = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + tenantColumns
	tenant, err := scanTenant(tx.QueryRow(ctx, query, activationCode, tenantID))
	if err != nil {
		return nil, fmt.Errorf("upgrade tenant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit activation: %w", err)
	}
	return tenant, nil
}
