package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eatwell/eatwell-backend/internal/app/service"
	apperrors "github.com/eatwell/eatwell-backend/internal/errors"
	"github.com/eatwell/eatwell-backend/internal/middleware"
)

type ReservationController struct {
	reservationService service.ReservationService
}

func NewReservationController(reservationService service.ReservationService) *ReservationController {
	return &ReservationController{reservationService: reservationService}
}

type CreateReservationRequest struct {
	RestaurantID idValue `json:"restaurantId"`
	Date         string  `json:"date"`
	TimeSlot     int     `json:"timeSlot"`
	Guests       int     `json:"guests"`
}

// CreateReservation books seats for the session user
// POST /reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email, ok := middleware.GetUserEmail(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reservation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid reservation data")
		return
	}

	// The owner always comes from the session, never from the body
	result, err := ctrl.reservationService.Reserve(email, service.ReservationInput{
		RestaurantID: uint(req.RestaurantID),
		Date:         req.Date,
		TimeSlot:     req.TimeSlot,
		Guests:       req.Guests,
	})
	if err != nil {
		var capErr *service.CapacityError
		switch {
		case respondValidation(c, err):
		case errors.As(err, &capErr):
			apperrors.BadRequest(c, apperrors.ReservationCapacity, capErr.Error())
		case errors.Is(err, service.ErrInvalidTimeSlot):
			apperrors.BadRequest(c, apperrors.ReservationInvalidTimeSlot, "This restaurant does not take bookings for that time slot")
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		default:
			log.Error("Reservation failed", err, map[string]interface{}{
				"restaurant_id": req.RestaurantID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create reservation")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Reservation successful",
		"reservation":      result.Reservation,
		"notificationSent": result.NotificationSent,
	})
}

// ListMyReservations returns the session user's bookings
// GET /reservations
func (ctrl *ReservationController) ListMyReservations(c *gin.Context) {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	reservations, err := ctrl.reservationService.ListMine(email)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, reservations)
}
