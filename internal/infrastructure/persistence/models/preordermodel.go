package models

import (
	"time"

	"gorm.io/gorm"
)

type PreOrderModel struct {
	ID              uint      `gorm:"primarykey"`
	SubscriptionID  uint      `gorm:"not null;index:idx_preorder_subscription"`
	ProductID       uint      `gorm:"not null;index:idx_preorder_product"`
	Quantity        int       `gorm:"not null"`
	UnitPriceCents  int64     `gorm:"not null"`
	DiscountPercent float64   `gorm:"not null;default:0"`
	FinalPriceCents int64     `gorm:"not null"`
	Status          string    `gorm:"size:32;not null;index:idx_preorder_status"`
	PriorityLevel   int       `gorm:"not null;default:3"`
	PeriodStart     time.Time `gorm:"not null"`
	Version         int       `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (PreOrderModel) TableName() string {
	return "preorders"
}

func (m *PreOrderModel) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
