package mailer

import (
	"fmt"
	"strings"
)

// Message is a rendered email.
type Message struct {
	Subject string
	Body    string
}

// VerificationLink builds the account verification URL for a token.
func VerificationLink(clientURL, token string) string {
	return fmt.Sprintf("%s/verify-account/%s", strings.TrimRight(clientURL, "/"), token)
}

// ResetLink builds the password reset URL for a token.
func ResetLink(clientURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(clientURL, "/"), token)
}

func VerificationMessage(link string) Message {
	return Message{
		Subject: "Verify Your Account",
		Body: "Thank you for registering.\n\n" +
			"Please verify your account by clicking the link below (expires in 24 hours):\n\n" +
			link + "\n\n" +
			"If you did not request this, please ignore this email.",
	}
}

func PasswordResetMessage(link string) Message {
	return Message{
		Subject: "Password Reset Request",
		Body: "You are receiving this email because you (or someone else) have requested to reset the password for your account.\n\n" +
			"Please click on the following link, or paste it into your browser to complete the process:\n\n" +
			link + "\n\n" +
			"This link will expire in one hour.\n\n" +
			"If you did not request this, please ignore this email.",
	}
}

// ReservationDetails is what the confirmation email needs to know about a booking.
type ReservationDetails struct {
	RestaurantName string
	Address        string
	Date           string
	TimeSlot       int
	Guests         int
}

func ReservationConfirmationMessage(d ReservationDetails) Message {
	return Message{
		Subject: fmt.Sprintf("Reservation confirmed at %s", d.RestaurantName),
		Body: fmt.Sprintf(
			"Your table is booked.\n\n"+
				"Restaurant: %s\n"+
				"Address: %s\n"+
				"Date: %s\n"+
				"Time slot: %d\n"+
				"Guests: %d\n\n"+
				"We look forward to seeing you.",
			d.RestaurantName, d.Address, d.Date, d.TimeSlot, d.Guests,
		),
	}
}
