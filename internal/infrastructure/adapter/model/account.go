package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents the database model for customer accounts
type Account struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement"`
	Username     string          `gorm:"size:50;not null;uniqueIndex:idx_accounts_username"`
	Email        string          `gorm:"size:100;not null;uniqueIndex:idx_accounts_email"`
	Password     string          `gorm:"size:255;not null"`
	Phone        string          `gorm:"size:20"`
	Role         string          `gorm:"size:20;not null;default:customer"`
	Balance      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:100000.00;check:chk_accounts_balance_non_negative,balance >= 0"`
	ProfileImage string          `gorm:"type:text"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
