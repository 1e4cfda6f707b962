package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// LowStockThreshold marks products with fewer units than this as low on stock.
const LowStockThreshold = 3

// MaxQuantity is the largest stock or line quantity the INTEGER columns hold.
const MaxQuantity = math.MaxInt32

type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TenantID      uuid.UUID `json:"-" db:"tenant_id"`
	Barcode       string    `json:"barcode" db:"barcode"`
	Name          string    `json:"name" db:"name"`
	PurchasePrice float64   `json:"purchase_price" db:"purchase_price"`
	SellPrice     float64   `json:"sell_price" db:"sell_price"`
	Quantity      int       `json:"quantity" db:"quantity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Product) IsLowStock() bool {
	return p.Quantity < LowStockThreshold
}

// MarshalJSON renders the derived low_stock flag next to the stored fields.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		LowStock bool `json:"low_stock"`
	}{product(p), p.IsLowStock()})
}

// ProductUpdate is a partial update. Nil fields are left untouched.
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Barcode       *string  `json:"barcode,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	SellPrice     *float64 `json:"sell_price,omitempty"`
	Quantity      *int     `json:"quantity,omitempty"`
}

func (u *ProductUpdate) Empty() bool {
	return u.Name == nil && u.Barcode == nil && u.PurchasePrice == nil && u.SellPrice == nil && u.Quantity == nil
}

// Apply copies the set fields onto p. Barcode is never applied.
func (u *ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.PurchasePrice != nil {
		p.PurchasePrice = *u.PurchasePrice
	}
	if u.SellPrice != nil {
		p.SellPrice = *u.SellPrice
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
}

// TenantStockSummary is used by the low stock scan. It carries the tenant
// id only; the manager code is a credential and never leaves the tenant.
type TenantStockSummary struct {
	TenantID      uuid.UUID `db:"tenant_id"`
	LowStockCount int       `db:"low_stock_count"`
}
