package models

import (
	"time"

	"gorm.io/gorm"
)

// Account holds the credentials of the local identity provider.
// Its ID is the identity of the user and is shared with the catalog User row.
type Account struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Email        string    `gorm:"type:varchar(150);uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	Username     string    `gorm:"type:varchar(100)"`
	AvatarURL    string    `gorm:"type:varchar(500)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AuthSession struct {
	Token     string    `gorm:"type:varchar(64);primaryKey"`
	AccountID string    `gorm:"type:varchar(36);not null;index"`
	Account   *Account  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}
