package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is reference data describing where products are sourced from.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	Email         *string
	Phone         *string
	Address       *string
	ContactPerson *string
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Supplier) TableName() string { return "suppliers" }
