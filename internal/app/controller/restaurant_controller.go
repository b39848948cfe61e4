package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eatwell/eatwell-backend/internal/app/service"
	apperrors "github.com/eatwell/eatwell-backend/internal/errors"
	"github.com/eatwell/eatwell-backend/internal/middleware"
	"github.com/eatwell/eatwell-backend/internal/storage"
)

type RestaurantController struct {
	restaurantService  service.RestaurantService
	reservationService service.ReservationService
}

func NewRestaurantController(restaurantService service.RestaurantService, reservationService service.ReservationService) *RestaurantController {
	return &RestaurantController{
		restaurantService:  restaurantService,
		reservationService: reservationService,
	}
}

// ListRestaurants filters by location and by name or cuisine
// GET /restaurants?location=&q=
func (ctrl *RestaurantController) ListRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurants, err := ctrl.restaurantService.ListRestaurants(c.Query("location"), c.Query("q"))
	if err != nil {
		log.Error("Failed to list restaurants", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, restaurants)
}

// GetRestaurant returns one restaurant
// GET /restaurants/:id
func (ctrl *RestaurantController) GetRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid restaurant ID")
		return
	}

	restaurant, err := ctrl.restaurantService.GetRestaurant(id)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, restaurant)
}

// GetAvailability reports the free seats of one date and time slot
// GET /restaurants/:id/availability?date=&timeSlot=
func (ctrl *RestaurantController) GetAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid restaurant ID")
		return
	}

	timeSlot, err := strconv.Atoi(c.Query("timeSlot"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "timeSlot must be a number")
		return
	}

	availability, err := ctrl.reservationService.Availability(id, c.Query("date"), timeSlot)
	if err != nil {
		switch {
		case respondValidation(c, err):
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, availability)
}

// CreateRestaurant adds a restaurant from a multipart form with its images
// POST /add-restaurants
func (ctrl *RestaurantController) CreateRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("Invalid restaurant form", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Restaurant data must be sent as multipart/form-data")
		return
	}

	input, fieldErrs := restaurantInputFromForm(form)
	if len(fieldErrs) > 0 {
		apperrors.RespondWithValidationError(c, "Invalid restaurant data", fieldErrs)
		return
	}

	images := service.RestaurantImages{
		Others: formFiles(form, "otherImages"),
		Menus:  formFiles(form, "menuImages"),
	}
	if mains := formFiles(form, "mainImage"); len(mains) > 0 {
		images.Main = mains[0]
	}

	restaurant, err := ctrl.restaurantService.CreateRestaurant(c.Request.Context(), input, images)
	if err != nil {
		switch {
		case respondValidation(c, err):
		case errors.Is(err, storage.ErrInvalidFileType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		case errors.Is(err, storage.ErrFileTooLarge):
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		case errors.Is(err, service.ErrImageStorageUnavailable):
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Image uploads are not available")
		default:
			log.Error("Failed to create restaurant", err, map[string]interface{}{
				"name": input.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create restaurant")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Restaurant added successfully",
		"restaurant": restaurant,
	})
}

// restaurantInputFromForm reads the text fields. List fields may repeat,
// use a "[]" suffix, or hold comma separated values.
func restaurantInputFromForm(form *multipart.Form) (service.RestaurantInput, map[string]string) {
	fieldErrs := map[string]string{}
	value := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
		return ""
	}
	number := func(key string, parse func(string) error) {
		if raw := value(key); raw != "" {
			if err := parse(raw); err != nil {
				fieldErrs[key] = key + " must be a number"
			}
		}
	}

	input := service.RestaurantInput{
		Name:        value("name"),
		Cuisines:    formList(form, "cuisines"),
		Address:     value("address"),
		Location:    value("location"),
		OpeningTime: value("openingTime"),
		ClosingTime: value("closingTime"),
		Phone:       value("phone"),
		Direction:   value("direction"),
		Info:        formList(form, "info"),
	}

	number("rating", func(s string) (err error) {
		input.Rating, err = strconv.ParseFloat(s, 64)
		return err
	})
	number("ratingCount", func(s string) (err error) {
		input.RatingCount, err = strconv.Atoi(s)
		return err
	})
	number("priceForTwo", func(s string) (err error) {
		input.PriceForTwo, err = strconv.Atoi(s)
		return err
	})
	number("totalSeats", func(s string) (err error) {
		input.TotalSeats, err = strconv.Atoi(s)
		return err
	})
	for _, raw := range formList(form, "timeSlots") {
		slot, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fieldErrs["timeSlots"] = "timeSlots must be numbers"
			break
		}
		input.TimeSlots = append(input.TimeSlots, slot)
	}

	return input, fieldErrs
}

func formList(form *multipart.Form, key string) []string {
	var out []string
	for _, raw := range append(form.Value[key], form.Value[key+"[]"]...) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func formFiles(form *multipart.Form, key string) []*multipart.FileHeader {
	return append(form.File[key], form.File[key+"[]"]...)
}
