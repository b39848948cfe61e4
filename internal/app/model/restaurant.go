package model

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type Restaurant struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"not null;index" json:"name"`
	Rating      float64    `gorm:"not null" json:"rating"`
	RatingCount int        `gorm:"not null" json:"ratingCount"`
	RatingSum   float64    `gorm:"not null;default:0" json:"-"` // unrounded total behind Rating
	Cuisines    StringList `gorm:"not null" json:"cuisines"`
	PriceForTwo int        `gorm:"not null" json:"priceForTwo"`
	Address     string     `gorm:"type:text;not null" json:"address"`
	Location    string     `gorm:"not null;index" json:"location"` // city or neighbourhood used by the listing filter
	OpeningTime string     `gorm:"type:varchar(10);not null" json:"openingTime"`
	ClosingTime string     `gorm:"type:varchar(10);not null" json:"closingTime"`
	Phone       string     `gorm:"type:varchar(30);not null" json:"phone"`
	Direction   string     `gorm:"type:text" json:"direction"`
	Info        StringList `json:"info"`

	// Image URLs returned by the image storage
	MainImage   string     `json:"mainImage"`
	OtherImages StringList `json:"otherImages"`
	MenuImages  StringList `json:"menuImages"`

	// Booking capacity shared by every reservation of one (date, time slot)
	TotalSeats int       `gorm:"default:0" json:"totalSeats"`
	TimeSlots  Int64List `json:"timeSlots"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// BeforeCreate derives the rating total of rows created with a rating and a count.
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.RatingSum == 0 {
		r.RatingSum = r.Rating * float64(r.RatingCount)
	}
	return nil
}

// RatingTotal returns the unrounded sum of all ratings. Rows stored before the
// total was tracked fall back to Rating times RatingCount.
func (r *Restaurant) RatingTotal() float64 {
	if r.RatingSum == 0 && r.RatingCount > 0 {
		return r.Rating * float64(r.RatingCount)
	}
	return r.RatingSum
}

// AddRating folds one rating into the total and returns the display rating,
// rounded to one decimal, with the new count.
func (r *Restaurant) AddRating(rating int) (display, total float64, count int) {
	count = r.RatingCount + 1
	total = r.RatingTotal() + float64(rating)
	display = math.Round(total/float64(count)*10) / 10
	return display, total, count
}

// OffersTimeSlot reports whether slot is one of the declared time slots.
// A restaurant that declares no slots offers every slot.
func (r *Restaurant) OffersTimeSlot(slot int) bool {
	if len(r.TimeSlots) == 0 {
		return true
	}
	return r.TimeSlots.Contains(int64(slot))
}
