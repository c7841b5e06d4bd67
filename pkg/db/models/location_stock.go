package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationStock is the ledger entry for one (location, product) pair.
// Quantity never goes negative; a mutation that would drive it below zero is
// rejected rather than clamped. Availability is independent of quantity: a
// location can hold stock that is not for sale.
type LocationStock struct {
	LocationID  uuid.UUID `gorm:"column:location_id;type:uuid;primaryKey" json:"location_id"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	Quantity    int       `gorm:"column:quantity;not null;default:0" json:"quantity"`
	IsAvailable bool      `gorm:"column:is_available;not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the ledger table name explicit.
func (LocationStock) TableName() string {
	return "location_stock"
}
