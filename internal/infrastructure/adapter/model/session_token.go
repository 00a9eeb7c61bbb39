package model

import (
	"time"
)

// SessionToken stores the hash of an issued login token
type SessionToken struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex:idx_session_tokens_token_hash"`
	AccountID uint64    `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for SessionToken
func (SessionToken) TableName() string {
	return "session_tokens"
}
