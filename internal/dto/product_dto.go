package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	SKU           string           `json:"sku"             validate:"required,min=3,max=50"`
	Barcode       *string          `json:"barcode"`
	Name          string           `json:"name"            validate:"required,min=2,max=200"`
	Description   *string          `json:"description"`
	Price         decimal.Decimal  `json:"price"           validate:"min=0"`
	Cost          *decimal.Decimal `json:"cost"            validate:"omitempty,min=0"`
	Quantity      int              `json:"quantity"        validate:"min=0"`
	MinStockLevel int              `json:"min_stock_level" validate:"min=0"`
	MaxStockLevel *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	Unit          string           `json:"unit"`
	CategoryID    string           `json:"category_id"     validate:"required,uuid"`
	SupplierID    *string          `json:"supplier_id"     validate:"omitempty,uuid"`
}

// UpdateProductRequest deliberately has no quantity field: the live quantity
// is only ever mutated through stock movements.
type UpdateProductRequest struct {
	Barcode       *string          `json:"barcode"`
	Name          *string          `json:"name"            validate:"omitempty,min=2,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"           validate:"omitempty,min=0"`
	Cost          *decimal.Decimal `json:"cost"            validate:"omitempty,min=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	Unit          *string          `json:"unit"`
	CategoryID    *string          `json:"category_id"     validate:"omitempty,uuid"`
	SupplierID    *string          `json:"supplier_id"     validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Category string `form:"category"`
	Supplier string `form:"supplier"`
	Search   string `form:"search"`
	LowStock bool   `form:"lowStock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string             `json:"id"`
	SKU           string             `json:"sku"`
	Barcode       *string            `json:"barcode"`
	Name          string             `json:"name"`
	Description   *string            `json:"description"`
	Price         decimal.Decimal    `json:"price"`
	Cost          *decimal.Decimal   `json:"cost"`
	Quantity      int                `json:"quantity"`
	MinStockLevel int                `json:"min_stock_level"`
	MaxStockLevel *int               `json:"max_stock_level"`
	Unit          string             `json:"unit"`
	CategoryID    string             `json:"category_id"`
	SupplierID    *string            `json:"supplier_id"`
	IsActive      bool               `json:"is_active"`
	LowStock      bool               `json:"low_stock"`
	CreatedAt     string             `json:"created_at"`
	Movements     []MovementResponse `json:"movements,omitempty"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
