package model

import (
	"time"
)

type Review struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurantId"`
	UserEmail    string    `gorm:"not null;index" json:"userEmail"`
	UserName     string    `gorm:"not null" json:"userName"`
	Rating       int       `gorm:"not null" json:"rating"` // 1-5
	Text         string    `gorm:"type:text;not null" json:"text"`
	CreatedAt    time.Time `json:"date"`
}

func (Review) TableName() string {
	return "reviews"
}
