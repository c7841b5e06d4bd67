package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the minimal catalog row the stock core references. The full
// catalog (media, pricing tiers, descriptions) lives outside this core.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SKU       string    `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	PriceBaht int64     `gorm:"column:price_baht;not null;default:0" json:"price_baht"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
