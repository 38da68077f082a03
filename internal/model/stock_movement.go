package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types. For IN and OUT the request quantity is a positive delta;
// for ADJUSTMENT it is the target absolute quantity.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

// StockMovement is one immutable entry of a product's movement log. Rows are
// append-only: nothing updates or deletes a committed movement except the
// cascade when its product is deleted.
//
// Quantity stores the magnitude of the change: for IN/OUT it is the requested
// delta, for ADJUSTMENT it is |NewQuantity - PreviousQuantity| so that the
// direction of an adjustment is recoverable from the before/after pair.
type StockMovement struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_movements_product_idem"`
	Type             string    `gorm:"not null;index"`
	Quantity         int       `gorm:"not null;check:quantity >= 0"`
	PreviousQuantity int       `gorm:"not null"`
	NewQuantity      int       `gorm:"not null"`
	Reason           *string
	Reference        *string
	Notes            *string
	UnitCost         *decimal.Decimal `gorm:"type:decimal(10,2)"`
	TotalCost        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PerformedBy      string           `gorm:"not null"`
	IdempotencyKey   *string          `gorm:"uniqueIndex:idx_movements_product_idem"`
	CreatedAt        time.Time        `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (StockMovement) TableName() string { return "stock_movements" }
