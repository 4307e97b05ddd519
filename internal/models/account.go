package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account describes a registered rider. The email column carries the unique
// constraint that makes the database the source of truth for duplicates.
type Account struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`

	// VerificationCode is nil once the account has been verified; the code is
	// consumed by the first successful verify.
	VerificationCode *int       `json:"-"`
	CodeIssuedAt     *time.Time `json:"-"`
	IsVerified       bool       `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
