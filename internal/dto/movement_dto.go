package dto

import "github.com/shopspring/decimal"

// ApplyMovementRequest is the engine's inbound contract. Quantity is a
// positive delta for IN/OUT and the target absolute quantity for ADJUSTMENT
// (zero allowed). PerformedBy falls back to the configured default actor.
type ApplyMovementRequest struct {
	ProductID      string           `json:"product_id"      validate:"required,uuid"`
	Type           string           `json:"type"            validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity       int              `json:"quantity"`
	Reason         *string          `json:"reason"          validate:"omitempty,max=255"`
	Reference      *string          `json:"reference"       validate:"omitempty,max=100"`
	Notes          *string          `json:"notes"`
	UnitCost       *decimal.Decimal `json:"unit_cost"       validate:"omitempty,min=0"`
	PerformedBy    string           `json:"performed_by"    validate:"omitempty,max=255"`
	IdempotencyKey *string          `json:"idempotency_key" validate:"omitempty,max=100"`
}

type MovementResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name,omitempty"`
	ProductSKU       string           `json:"product_sku,omitempty"`
	Type             string           `json:"type"`
	Quantity         int              `json:"quantity"`
	PreviousQuantity int              `json:"previous_quantity"`
	NewQuantity      int              `json:"new_quantity"`
	Reason           *string          `json:"reason"`
	Reference        *string          `json:"reference"`
	Notes            *string          `json:"notes"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	TotalCost        *decimal.Decimal `json:"total_cost"`
	PerformedBy      string           `json:"performed_by"`
	CreatedAt        string           `json:"created_at"`
}

// ApplyMovementResponse is returned on a successful commit.
type ApplyMovementResponse struct {
	Movement         MovementResponse `json:"movement"`
	PreviousQuantity int              `json:"previous_quantity"`
	NewQuantity      int              `json:"new_quantity"`
}

type MovementFilter struct {
	ProductID string `form:"productId" validate:"omitempty,uuid"`
	Type      string `form:"type"      validate:"omitempty,oneof=IN OUT ADJUSTMENT"`
	Order     string `form:"order,default=desc" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=100"`
}

type MovementListResponse struct {
	Data       []MovementResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
