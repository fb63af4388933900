package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanModel is the persistence shape of a catalog plan. Billing cycle
// options are stored as a JSON array column.
type PlanModel struct {
	ID                 uint           `gorm:"primarykey"`
	Code               string         `gorm:"size:32;not null;uniqueIndex:idx_plan_code"`
	Name               string         `gorm:"size:128;not null"`
	Tier               string         `gorm:"size:32;not null;index:idx_plan_tier"`
	MonthlyPriceCents  int64          `gorm:"not null"`
	BillingCycles      datatypes.JSON `gorm:"not null"`
	MaxPreorders       int            `gorm:"not null;default:0"`
	MaxPreorderValue   int64          `gorm:"not null;default:0"`
	EarlyAccessDays    int            `gorm:"not null;default:0"`
	DiscountPercent    float64        `gorm:"not null;default:0"`
	MaxTrackedProducts int            `gorm:"not null;default:0"`
	Version            int            `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (PlanModel) TableName() string {
	return "plans"
}

func (m *PlanModel) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
