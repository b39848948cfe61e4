package model

import (
	"time"
)

// Reservation books guests into one (restaurant, date, time slot) bucket.
type Reservation struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"not null;index" json:"email"` // owner, taken from the session
	RestaurantID uint      `gorm:"not null;index:idx_reservations_slot" json:"restaurantId"`
	Date         string    `gorm:"type:varchar(32);not null;index:idx_reservations_slot" json:"date"`
	TimeSlot     int       `gorm:"not null;index:idx_reservations_slot" json:"timeSlot"`
	Guests       int       `gorm:"not null" json:"guests"`
	CreatedAt    time.Time `json:"createdAt"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"restaurant,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}
