package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scooter is a rentable vehicle with its last reported position.
type Scooter struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	ProductType string  `gorm:"not null" json:"product_type"`
	Model       string  `gorm:"column:product_model;not null" json:"model"`
	Battery     int     `gorm:"default:100" json:"battery"`
	IsAvailable bool    `gorm:"default:true" json:"is_available"`
	Lat         float64 `gorm:"column:current_location_lat" json:"current_location_lat"`
	Lon         float64 `gorm:"column:current_location_long" json:"current_location_long"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (s *Scooter) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
