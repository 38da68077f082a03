package dto

import "github.com/shopspring/decimal"

// CategoryStat aggregates products grouped by category for the dashboard.
type CategoryStat struct {
	Category      string          `json:"category"`
	Count         int64           `json:"count"`
	TotalQuantity int64           `json:"total_quantity"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
}

type DashboardStatsResponse struct {
	TotalProducts   int64              `json:"total_products"`
	TotalValue      decimal.Decimal    `json:"total_value"`
	LowStockCount   int64              `json:"low_stock_count"`
	TopCategories   []CategoryStat     `json:"top_categories"`
	RecentMovements []MovementResponse `json:"recent_movements"`
}
