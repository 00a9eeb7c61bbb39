package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents the database model for balance history
type LedgerEntry struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	AccountID   uint64          `gorm:"not null"`
	Type        string          `gorm:"size:20;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Description string          `gorm:"size:255"`
	Category    string          `gorm:"size:50"`
	Status      string          `gorm:"size:20;not null;default:completed"`
	CreatedAt   time.Time       `gorm:"not null"`

	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "transactions"
}
