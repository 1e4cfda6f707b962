package models

import "time"

type StatisticsFilterType string

const (
	FilterDaily   StatisticsFilterType = "daily"
	FilterWeekly  StatisticsFilterType = "weekly"
	FilterMonthly StatisticsFilterType = "monthly"
	FilterCustom  StatisticsFilterType = "custom"
)

type StatisticsFilter struct {
	Type  StatisticsFilterType
	Start *time.Time
	End   *time.Time
}

type ProductSold struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Statistics struct {
	TotalSales    float64       `json:"total_sales"`
	TotalProfit   float64       `json:"total_profit"`
	TotalProducts int           `json:"total_products"`
	ProductsSold  []ProductSold `json:"products_sold"`
	WindowStart   time.Time     `json:"window_start"`
	WindowEnd     time.Time     `json:"window_end"`
}

// ExportSnapshot is the read-only export payload.
type ExportSnapshot struct {
	ManagerCode string     `json:"manager_code"`
	GeneratedAt time.Time  `json:"generated_at"`
	Products    []*Product `json:"products,omitempty"`
	Sales       []*Sale    `json:"sales,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
}
