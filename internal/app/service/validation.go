package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	nameMinLength     = 3
	nameMaxLength     = 50
	passwordMinLength = 5
	passwordMaxLength = 128
	reviewMaxLength   = 1000
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// FieldErrors maps a request field to the reason it was rejected.
type FieldErrors map[string]string

// ValidationError reports every invalid field of one request.
// Message is the first failure in check order.
type ValidationError struct {
	Message string
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type fieldChecker struct {
	first  string
	fields FieldErrors
}

func newFieldChecker() *fieldChecker {
	return &fieldChecker{fields: FieldErrors{}}
}

// check records msg against field when ok is false. Only the first failure per field is kept.
func (c *fieldChecker) check(ok bool, field, msg string) {
	if ok {
		return
	}
	if _, exists := c.fields[field]; exists {
		return
	}
	c.fields[field] = msg
	if c.first == "" {
		c.first = msg
	}
}

func (c *fieldChecker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Message: c.first, Fields: c.fields}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (c *fieldChecker) checkEmail(email string) {
	c.check(email != "", "email", "Email is required")
	c.check(emailPattern.MatchString(email), "email", "Please enter a valid email address")
}

func (c *fieldChecker) checkPassword(field, password string) {
	c.check(password != "", field, "Password is required")
	c.check(
		lengthBetween(password, passwordMinLength, passwordMaxLength),
		field,
		"Password must be between 5 and 128 characters",
	)
}

// ValidateRegistration checks a sign-up request. email must already be normalized.
func ValidateRegistration(name, email, password string) error {
	c := newFieldChecker()
	c.check(strings.TrimSpace(name) != "", "name", "Name is required")
	c.check(lengthBetween(strings.TrimSpace(name), nameMinLength, nameMaxLength), "name", "Name must be between 3 and 50 characters")
	c.checkEmail(email)
	c.checkPassword("password", password)
	return c.err()
}

func ValidateLogin(email, password string) error {
	c := newFieldChecker()
	c.checkEmail(email)
	c.checkPassword("password", password)
	return c.err()
}

func ValidateEmail(email string) error {
	c := newFieldChecker()
	c.checkEmail(email)
	return c.err()
}

func ValidateNewPassword(password string) error {
	c := newFieldChecker()
	c.checkPassword("newPassword", password)
	return c.err()
}

// ValidateReservation checks the caller supplied part of a booking.
// The date is an opaque key and is only required to be present.
func ValidateReservation(in ReservationInput) error {
	c := newFieldChecker()
	c.check(in.RestaurantID > 0, "restaurantId", "Restaurant ID is required")
	c.check(strings.TrimSpace(in.Date) != "", "date", "Date is required")
	c.check(in.TimeSlot >= 0, "timeSlot", "Time slot must not be negative")
	c.check(in.Guests >= 1, "guests", "Guests must be at least 1")
	return c.err()
}

func ValidateRestaurant(in RestaurantInput) error {
	c := newFieldChecker()
	c.check(strings.TrimSpace(in.Name) != "", "name", "Name is required")
	c.check(len(trimAll(in.Cuisines)) > 0, "cuisines", "At least one cuisine is required")
	c.check(in.PriceForTwo > 0, "priceForTwo", "Price for two must be positive")
	c.check(strings.TrimSpace(in.Address) != "", "address", "Address is required")
	c.check(strings.TrimSpace(in.Location) != "", "location", "Location is required")
	c.check(strings.TrimSpace(in.OpeningTime) != "", "openingTime", "Opening time is required")
	c.check(strings.TrimSpace(in.ClosingTime) != "", "closingTime", "Closing time is required")
	c.check(strings.TrimSpace(in.Phone) != "", "phone", "Phone is required")
	c.check(in.Rating >= 0 && in.Rating <= 5, "rating", "Rating must be between 0 and 5")
	c.check(in.RatingCount >= 0, "ratingCount", "Rating count must not be negative")
	c.check(in.TotalSeats >= 0, "totalSeats", "Total seats must not be negative")
	for _, slot := range in.TimeSlots {
		c.check(slot >= 0, "timeSlots", "Time slots must not be negative")
	}
	return c.err()
}

func ValidateReview(rating int, text string) error {
	c := newFieldChecker()
	c.check(rating >= 1 && rating <= 5, "rating", "Rating must be between 1 and 5")
	c.check(strings.TrimSpace(text) != "", "text", "Review text is required")
	c.check(utf8.RuneCountInString(text) <= reviewMaxLength, "text", "Review text must be at most 1000 characters")
	return c.err()
}
