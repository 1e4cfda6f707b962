package repositories

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"storepos/internal/common"
	"storepos/internal/models"

	"github.com/google/uuid"
)

type SaleRepository interface {
	// Create decrements stock for every line and records the sale in one
	// transaction. sale must carry ID, TenantID and CreatedAt; Items and the
	// aggregates are filled in from the locked product rows.
	Create(ctx context.Context, sale *models.Sale, lines []models.SaleItemRequest) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, tenantID uuid.UUID, filter models.SaleFilter) ([]*models.Sale, error)
	DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type saleRepo struct {
	db DBTX
}

func NewSaleRepo(db DBTX) SaleRepository {
	return &saleRepo{db: db}
}

type productSnapshot struct {
	name          string
	sellPrice     float64
	purchasePrice float64
}

func (r *saleRepo) Create(ctx context.Context, sale *models.Sale, lines []models.SaleItemRequest) error {
	if len(lines) == 0 {
		return common.ErrEmptySale
	}

	// Lock rows in a fixed order so two multi-item sales cannot deadlock.
	order := make([]models.SaleItemRequest, len(lines))
	copy(order, lines)
	sort.Slice(order, func(i, j int) bool {
		return bytes.Compare(order[i].ProductID[:], order[j].ProductID[:]) < 0
	})

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sale: %w", err)
	}
	defer rollback(ctx, tx)

	decrement := `
		UPDATE products SET quantity = quantity - $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND quantity >= $1
		RETURNING name, sell_price, purchase_price
	`
	snapshots := make(map[uuid.UUID]productSnapshot, len(order))
	for _, line := range order {
		var snap productSnapshot
		err := tx.QueryRow(ctx, decrement, line.Quantity, sale.TenantID, line.ProductID).
			Scan(&snap.name, &snap.sellPrice, &snap.purchasePrice)
		if isNoRows(err) {
			return r.classifyMissing(ctx, tx, sale.TenantID, line.ProductID)
		}
		if err != nil {
			return fmt.Errorf("decrement product %s: %w", line.ProductID, err)
		}
		snapshots[line.ProductID] = snap
	}

	sale.Items = make([]models.SaleItem, 0, len(lines))
	for _, line := range lines {
		snap := snapshots[line.ProductID]
		sale.Items = append(sale.Items, models.NewSaleItem(line.ProductID, snap.name, line.Quantity, snap.sellPrice, snap.purchasePrice))
	}
	sale.Recalculate()

	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, tenant_id, employee_name, total_items, total_quantity, total_amount, profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sale.ID, sale.TenantID, sale.EmployeeName, sale.TotalItems, sale.TotalQuantity, sale.TotalAmount, sale.Profit, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for i, item := range sale.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, line_no, product_id, product_name, quantity, sell_price, purchase_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, sale.ID, i+1, item.ProductID, item.ProductName, item.Quantity, item.SellPrice, item.PurchasePrice, item.Total)
		if err != nil {
			return fmt.Errorf("insert sale item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sale: %w", err)
	}
	return nil
}

// classifyMissing tells an unknown product apart from one without enough stock.
func (r *saleRepo) classifyMissing(ctx context.Context, tx DBTX, tenantID, productID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE tenant_id = $1 AND id = $2)`, tenantID, productID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("probe product %s: %w", productID, err)
	}
	if !exists {
		return common.ErrProductNotFound.WithDetail("product_id", productID.String())
	}
	return common.ErrInsufficientQuantity.WithDetail("product_id", productID.String())
}

const saleSelect = `
	SELECT s.id, s.tenant_id, s.employee_name, s.total_items, s.total_quantity, s.total_amount, s.profit, s.created_at,
		i.product_id, i.product_name, i.quantity, i.sell_price, i.purchase_price, i.line_total
	FROM sales s
	JOIN sale_items i ON i.sale_id = s.id
`

func (r *saleRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Sale, error) {
	sales, err := r.query(ctx, saleSelect+` WHERE s.tenant_id = $1 AND s.id = $2 ORDER BY i.line_no`, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get sale %s: %w", id, err)
	}
	if len(sales) == 0 {
		return nil, common.ErrSaleNotFound
	}
	return sales[0], nil
}

func (r *saleRepo) List(ctx context.Context, tenantID uuid.UUID, filter models.SaleFilter) ([]*models.Sale, error) {
	var where strings.Builder
	where.WriteString(` WHERE s.tenant_id = $1`)
	args := []any{tenantID}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&where, ` AND s.created_at >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&where, ` AND s.created_at < $%d`, len(args))
	}
	sales, err := r.query(ctx, saleSelect+where.String()+` ORDER BY s.created_at, s.id, i.line_no`, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// query folds the joined sale/item rows back into sales, preserving row order.
func (r *saleRepo) query(ctx context.Context, sql string, args ...any) ([]*models.Sale, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]*models.Sale, 0)
	var current *models.Sale
	for rows.Next() {
		var s models.Sale
		var it models.SaleItem
		if err := rows.Scan(&s.ID, &s.TenantID, &s.EmployeeName, &s.TotalItems, &s.TotalQuantity, &s.TotalAmount, &s.Profit, &s.CreatedAt,
			&it.ProductID, &it.ProductName, &it.Quantity, &it.SellPrice, &it.PurchasePrice, &it.Total); err != nil {
			return nil, err
		}
		if current == nil || current.ID != s.ID {
			current = &s
			sales = append(sales, current)
		}
		current.Items = append(current.Items, it)
	}
	return sales, rows.Err()
}

func (r *saleRepo) DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, fmt.Errorf("delete sales: %w", err)
	}
	return tag.RowsAffected(), nil
}
