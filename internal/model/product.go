package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the ledger entity: it owns the current quantity as the single
// source of truth. Quantity is mutated exclusively by the movement service —
// no other code path writes it.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU           string    `gorm:"uniqueIndex;not null"`
	Barcode       *string   `gorm:"uniqueIndex"`
	Name          string    `gorm:"index;not null"`
	Description   *string
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Cost          *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Quantity      int              `gorm:"not null;default:0;check:quantity >= 0"`
	MinStockLevel int              `gorm:"not null;default:5"`
	MaxStockLevel *int
	Unit          string     `gorm:"not null;default:'pcs'"`
	CategoryID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupplierID    *uuid.UUID `gorm:"type:uuid;index"`
	IsActive      bool       `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (Product) TableName() string { return "products" }

// IsLowStock reports the derived low-stock condition. It is computed by
// consumers (dashboard, listings) and never stored.
func (p *Product) IsLowStock() bool { return p.Quantity <= p.MinStockLevel }
