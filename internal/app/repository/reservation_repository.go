package repository

import (
	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(reservation *model.Reservation) error
	// SumGuests totals guests already booked into the exact (restaurant, date, slot) bucket.
	SumGuests(restaurantID uint, date string, timeSlot int) (int, error)
	FindByEmail(email string) ([]model.Reservation, error)
	WithTx(tx *gorm.DB) ReservationRepository
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) WithTx(tx *gorm.DB) ReservationRepository {
	return &reservationRepository{db: tx}
}

func (r *reservationRepository) Create(reservation *model.Reservation) error {
	logger.Debug("Creating reservation in database", map[string]interface{}{
		"restaurant_id": reservation.RestaurantID,
		"date":          reservation.Date,
		"time_slot":     reservation.TimeSlot,
		"guests":        reservation.Guests,
	})

	if err := r.db.Create(reservation).Error; err != nil {
		logger.Error("Failed to create reservation in database", err, map[string]interface{}{
			"restaurant_id": reservation.RestaurantID,
		})
		return err
	}
	return nil
}

func (r *reservationRepository) SumGuests(restaurantID uint, date string, timeSlot int) (int, error) {
	var total int64
	err := r.db.Model(&model.Reservation{}).
		Select("COALESCE(SUM(guests), 0)").
		Where("restaurant_id = ? AND date = ? AND time_slot = ?", restaurantID, date, timeSlot).
		Scan(&total).Error
	if err != nil {
		logger.Error("Failed to sum reserved guests", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"date":          date,
			"time_slot":     timeSlot,
		})
		return 0, err
	}
	return int(total), nil
}

func (r *reservationRepository) FindByEmail(email string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.
		Preload("Restaurant").
		Where("email = ?", email).
		Order("created_at DESC, id DESC").
		Find(&reservations).Error
	if err != nil {
		logger.Error("Failed to find reservations by email", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return reservations, nil
}
