package repositories

import (
	"context"
	"fmt"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	// Create inserts product unless the tenant would exceed freeLimit
	// products while on the free tier, or the barcode is already taken.
	Create(ctx context.Context, product *models.Product, freeLimit int) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, patch *models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
	LowStockSummary(ctx context.Context, threshold int) ([]*models.TenantStockSummary, error)
}

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, tenant_id, barcode, name, purchase_price, sell_price, quantity, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.TenantID, &p.Barcode, &p.Name, &p.PurchasePrice, &p.SellPrice, &p.Quantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product, freeLimit int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin product insert: %w", err)
	}
	defer rollback(ctx, tx)

	// The tenant row lock serialises concurrent inserts for the quota check.
	var isPro bool
	err = tx.QueryRow(ctx, `SELECT is_pro FROM tenants WHERE id = $1 FOR UPDATE`, product.TenantID).Scan(&isPro)
	if isNoRows(err) {
		return common.ErrManagerNotFound
	}
	if err != nil {
		return fmt.Errorf("lock tenant: %w", err)
	}

	if !isPro {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE tenant_id = $1`, product.TenantID).Scan(&count); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if count >= freeLimit {
			return common.ErrFreeLimitReached
		}
	}

	query := `
		INSERT INTO products (id, tenant_id, barcode, name, purchase_price, sell_price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, product.ID, product.TenantID, product.Barcode, product.Name, product.PurchasePrice, product.SellPrice, product.Quantity).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if isUniqueViolation(err) {
		return common.ErrBarcodeExists
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit product insert: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	product, err := scanProduct(r.db.QueryRow(ctx, query, tenantID, id))
	if isNoRows(err) {
		return nil, common.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return product, nil
}

func (r *productRepo) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND barcode = $2`
	product, err := scanProduct(r.db.QueryRow(ctx, query, tenantID, barcode))
	if isNoRows(err) {
		return nil, common.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return product, nil
}

// Update only touches the columns present in patch, so a catalog edit that
// leaves quantity alone cannot overwrite a concurrent sale's decrement.
func (r *productRepo) Update(ctx context.Context, tenantID, id uuid.UUID, patch *models.ProductUpdate) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = COALESCE($1, name),
			purchase_price = COALESCE($2, purchase_price),
			sell_price = COALESCE($3, sell_price),
			quantity = COALESCE($4, quantity),
			updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
		RETURNING ` + productColumns
	product, err := scanProduct(r.db.QueryRow(ctx, query, patch.Name, patch.PurchasePrice, patch.SellPrice, patch.Quantity, tenantID, id))
	if isNoRows(err) {
		return nil, common.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return product, nil
}

func (r *productRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY name, id`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) LowStockSummary(ctx context.Context, threshold int) ([]*models.TenantStockSummary, error) {
	query := `
		SELECT tenant_id, COUNT(id)
		FROM products
		WHERE quantity < $1
		GROUP BY tenant_id
		ORDER BY tenant_id
	`
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock summary: %w", err)
	}
	defer rows.Close()

	var summaries []*models.TenantStockSummary
	for rows.Next() {
		s := &models.TenantStockSummary{}
		if err := rows.Scan(&s.TenantID, &s.LowStockCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
