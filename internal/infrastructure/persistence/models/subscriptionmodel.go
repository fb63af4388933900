package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionModel struct {
	ID                 uint      `gorm:"primarykey"`
	CustomerID         uint      `gorm:"not null;index:idx_subscription_customer"`
	PlanID             uint      `gorm:"not null"`
	Status             string    `gorm:"size:32;not null;index:idx_subscription_status"`
	BillingCycle       string    `gorm:"size:32;not null"`
	PaymentMethod      string    `gorm:"size:128;not null"`
	AutoRenew          bool      `gorm:"not null;default:true"`
	CurrentPeriodStart time.Time `gorm:"not null"`
	CurrentPeriodEnd   time.Time `gorm:"not null;index:idx_subscription_period_end"`
	PausedAt           *time.Time
	FailedAttempts     int `gorm:"not null;default:0"`
	NextRetryAt        *time.Time
	Version            int `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

func (m *SubscriptionModel) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
