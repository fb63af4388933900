package models

import (
	"time"

	"gorm.io/gorm"
)

type ProductModel struct {
	ID               uint   `gorm:"primarykey"`
	SKU              string `gorm:"size:64;not null;uniqueIndex:idx_product_sku"`
	Name             string `gorm:"size:255;not null"`
	PreorderEligible bool   `gorm:"not null;default:false"`
	WindowStart      time.Time
	WindowEnd        time.Time
	BasePriceCents   int64 `gorm:"not null"`
	InventoryLimit   int   `gorm:"not null;default:0"`
	Version          int   `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (ProductModel) TableName() string {
	return "products"
}

func (m *ProductModel) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
