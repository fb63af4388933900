package models

import (
	"time"

	"gorm.io/gorm"
)

type CustomerModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex:idx_customer_email"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CustomerModel) TableName() string {
	return "customers"
}
