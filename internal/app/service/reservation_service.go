package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/mailer"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCapacityExceeded = errors.New("not enough seats available")
	ErrInvalidTimeSlot  = errors.New("time slot is not offered by this restaurant")
)

// CapacityError rejects a booking that does not fit in the remaining seats.
type CapacityError struct {
	Available int
}

func (e *CapacityError) Error() string {
	if e.Available == 1 {
		return "Only 1 seat available for this time slot"
	}
	return fmt.Sprintf("Only %d seats available for this time slot", e.Available)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

type ReservationInput struct {
	RestaurantID uint
	Date         string
	TimeSlot     int
	Guests       int
}

type ReservationResult struct {
	Reservation      *model.Reservation
	NotificationSent bool
}

// Availability describes the seats of one (restaurant, date, time slot) bucket.
type Availability struct {
	RestaurantID uint   `json:"restaurantId"`
	Date         string `json:"date"`
	TimeSlot     int    `json:"timeSlot"`
	TotalSeats   int    `json:"totalSeats"`
	Booked       int    `json:"booked"`
	Available    int    `json:"available"`
}

// AvailabilityPublisher receives the new seat count of a bucket after each booking.
type AvailabilityPublisher interface {
	PublishAvailability(a Availability)
}

type ReservationService interface {
	// Reserve admits the booking only if it fits in the remaining seats of its bucket.
	// The check and the insert run in one transaction holding the restaurant row lock.
	Reserve(email string, input ReservationInput) (*ReservationResult, error)
	Availability(restaurantID uint, date string, timeSlot int) (*Availability, error)
	ListMine(email string) ([]model.Reservation, error)
}

type reservationService struct {
	db              *gorm.DB
	restaurantRepo  repository.RestaurantRepository
	reservationRepo repository.ReservationRepository
	mail            mailer.Gateway
	updates         AvailabilityPublisher
	strictTimeSlots bool
}

func NewReservationService(
	db *gorm.DB,
	restaurantRepo repository.RestaurantRepository,
	reservationRepo repository.ReservationRepository,
	mail mailer.Gateway,
	updates AvailabilityPublisher,
	strictTimeSlots bool,
) ReservationService {
	return &reservationService{
		db:              db,
		restaurantRepo:  restaurantRepo,
		reservationRepo: reservationRepo,
		mail:            mail,
		updates:         updates,
		strictTimeSlots: strictTimeSlots,
	}
}

func remainingSeats(totalSeats, booked int) int {
	if available := totalSeats - booked; available > 0 {
		return available
	}
	return 0
}

func (s *reservationService) Reserve(email string, input ReservationInput) (*ReservationResult, error) {
	input.Date = strings.TrimSpace(input.Date)

	logger.Info("Attempting reservation", map[string]interface{}{
		"email":         email,
		"restaurant_id": input.RestaurantID,
		"date":          input.Date,
		"time_slot":     input.TimeSlot,
		"guests":        input.Guests,
	})

	if err := ValidateReservation(input); err != nil {
		return nil, err
	}

	var (
		restaurant  *model.Restaurant
		reservation *model.Reservation
		booked      int
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		restaurant, err = s.restaurantRepo.WithTx(tx).FindByIDForUpdate(input.RestaurantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Reservation failed: restaurant not found", map[string]interface{}{
					"restaurant_id": input.RestaurantID,
				})
				return ErrRestaurantNotFound
			}
			return err
		}

		if s.strictTimeSlots && !restaurant.OffersTimeSlot(input.TimeSlot) {
			logger.Warn("Reservation failed: time slot not offered", map[string]interface{}{
				"restaurant_id": restaurant.ID,
				"time_slot":     input.TimeSlot,
			})
			return ErrInvalidTimeSlot
		}

		reservations := s.reservationRepo.WithTx(tx)
		booked, err = reservations.SumGuests(restaurant.ID, input.Date, input.TimeSlot)
		if err != nil {
			return err
		}

		available := remainingSeats(restaurant.TotalSeats, booked)
		if input.Guests > available {
			logger.Warn("Reservation failed: insufficient seats", map[string]interface{}{
				"restaurant_id": restaurant.ID,
				"date":          input.Date,
				"time_slot":     input.TimeSlot,
				"requested":     input.Guests,
				"available":     available,
			})
			return &CapacityError{Available: available}
		}

		reservation = &model.Reservation{
			Email:        email,
			RestaurantID: restaurant.ID,
			Date:         input.Date,
			TimeSlot:     input.TimeSlot,
			Guests:       input.Guests,
		}
		return reservations.Create(reservation)
	})
	if err != nil {
		return nil, err
	}

	reservation.Restaurant = restaurant
	result := &ReservationResult{Reservation: reservation}

	logger.Info("Reservation created", map[string]interface{}{
		"reservation_id": reservation.ID,
		"restaurant_id":  restaurant.ID,
		"email":          email,
	})

	if s.updates != nil {
		booked += reservation.Guests
		s.updates.PublishAvailability(Availability{
			RestaurantID: restaurant.ID,
			Date:         reservation.Date,
			TimeSlot:     reservation.TimeSlot,
			TotalSeats:   restaurant.TotalSeats,
			Booked:       booked,
			Available:    remainingSeats(restaurant.TotalSeats, booked),
		})
	}

	// The reservation stands whether or not the confirmation goes out
	msg := mailer.ReservationConfirmationMessage(mailer.ReservationDetails{
		RestaurantName: restaurant.Name,
		Address:        restaurant.Address,
		Date:           reservation.Date,
		TimeSlot:       reservation.TimeSlot,
		Guests:         reservation.Guests,
	})
	if err := s.mail.Send(email, msg.Subject, msg.Body); err != nil {
		logger.Error("Failed to send reservation confirmation", err, map[string]interface{}{
			"reservation_id": reservation.ID,
			"email":          email,
		})
	} else {
		result.NotificationSent = true
	}

	return result, nil
}

func (s *reservationService) Availability(restaurantID uint, date string, timeSlot int) (*Availability, error) {
	date = strings.TrimSpace(date)

	c := newFieldChecker()
	c.check(restaurantID > 0, "restaurantId", "Restaurant ID is required")
	c.check(date != "", "date", "Date is required")
	c.check(timeSlot >= 0, "timeSlot", "Time slot must not be negative")
	if err := c.err(); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByID(restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	booked, err := s.reservationRepo.SumGuests(restaurant.ID, date, timeSlot)
	if err != nil {
		return nil, err
	}

	return &Availability{
		RestaurantID: restaurant.ID,
		Date:         date,
		TimeSlot:     timeSlot,
		TotalSeats:   restaurant.TotalSeats,
		Booked:       booked,
		Available:    remainingSeats(restaurant.TotalSeats, booked),
	}, nil
}

func (s *reservationService) ListMine(email string) ([]model.Reservation, error) {
	reservations, err := s.reservationRepo.FindByEmail(email)
	if err != nil {
		logger.Error("Failed to list reservations", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return reservations, nil
}
