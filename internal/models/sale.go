package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SaleItemRequest is one requested line of a sale.
type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type SaleRequest struct {
	EmployeeName *string           `json:"employee_name,omitempty"`
	Items        []SaleItemRequest `json:"items"`
}

// SaleItem is a snapshot of the product at sale time.
type SaleItem struct {
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	ProductName   string    `json:"product_name" db:"product_name"`
	Quantity      int       `json:"quantity" db:"quantity"`
	SellPrice     float64   `json:"sell_price" db:"sell_price"`
	PurchasePrice float64   `json:"purchase_price" db:"purchase_price"`
	Total         float64   `json:"total" db:"line_total"`
}

type Sale struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TenantID      uuid.UUID  `json:"-" db:"tenant_id"`
	EmployeeName  *string    `json:"employee_name,omitempty" db:"employee_name"`
	Items         []SaleItem `json:"items"`
	TotalItems    int        `json:"total_items" db:"total_items"`
	TotalQuantity int        `json:"total_quantity" db:"total_quantity"`
	TotalAmount   float64    `json:"total_amount" db:"total_amount"`
	Profit        float64    `json:"profit" db:"profit"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewSaleItem builds a line snapshot with its total.
func NewSaleItem(productID uuid.UUID, name string, quantity int, sellPrice, purchasePrice float64) SaleItem {
	return SaleItem{
		ProductID:     productID,
		ProductName:   name,
		Quantity:      quantity,
		SellPrice:     sellPrice,
		PurchasePrice: purchasePrice,
		Total:         RoundMoney(sellPrice * float64(quantity)),
	}
}

// Recalculate derives the sale aggregates from its items.
func (s *Sale) Recalculate() {
	s.TotalItems = len(s.Items)
	s.TotalQuantity = 0
	var amount, profit float64
	for _, it := range s.Items {
		s.TotalQuantity += it.Quantity
		amount += it.Total
		profit += (it.SellPrice - it.PurchasePrice) * float64(it.Quantity)
	}
	s.TotalAmount = RoundMoney(amount)
	s.Profit = RoundMoney(profit)
}

// MergeSaleLines collapses repeated products into one line, keeping the
// order of first appearance.
func MergeSaleLines(items []SaleItemRequest) []SaleItemRequest {
	idx := make(map[uuid.UUID]int, len(items))
	merged := make([]SaleItemRequest, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

// SaleFilter narrows sale listings. Bounds are [From, To).
type SaleFilter struct {
	From *time.Time
	To   *time.Time
}
