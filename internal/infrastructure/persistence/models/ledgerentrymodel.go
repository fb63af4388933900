package models

import (
	"time"

	"gorm.io/gorm"
)

// LedgerEntryModel holds one period's usage counters. The unique index over
// (subscription_id, period_start) is what makes get-or-create race-safe: a
// concurrent insert loses the race at the constraint, never duplicates.
type LedgerEntryModel struct {
	ID                 uint      `gorm:"primarykey"`
	SubscriptionID     uint      `gorm:"not null;uniqueIndex:idx_ledger_subscription_period"`
	PeriodStart        time.Time `gorm:"not null;uniqueIndex:idx_ledger_subscription_period"`
	PreorderCount      int       `gorm:"not null;default:0"`
	PreorderValueCents int64     `gorm:"not null;default:0"`
	Version            int       `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (LedgerEntryModel) TableName() string {
	return "usage_ledger_entries"
}

func (m *LedgerEntryModel) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
