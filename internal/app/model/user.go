package model

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`                  // user ID
	Name         string `gorm:"not null" json:"name"`                  // display name
	Email        string `gorm:"uniqueIndex;not null" json:"email"`     // login email
	PasswordHash string `gorm:"not null" json:"-"`                     // bcrypt hash
	IsVerified   bool   `gorm:"default:false;index" json:"isVerified"` // email ownership confirmed

	// Pending email verification; token and expiry are set and cleared together
	VerificationToken   *string    `gorm:"index" json:"-"`
	VerificationExpires *time.Time `json:"-"`

	// Pending password reset; token and expiry are set and cleared together
	ResetPasswordToken   *string    `gorm:"index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// StartVerification replaces any pending verification token.
func (u *User) StartVerification(token string, expiresAt time.Time) {
	u.VerificationToken = &token
	u.VerificationExpires = &expiresAt
}

// CompleteVerification marks the account verified and consumes the token.
func (u *User) CompleteVerification() {
	u.IsVerified = true
	u.VerificationToken = nil
	u.VerificationExpires = nil
}

// StartPasswordReset replaces any pending reset token.
func (u *User) StartPasswordReset(token string, expiresAt time.Time) {
	u.ResetPasswordToken = &token
	u.ResetPasswordExpires = &expiresAt
}

// CompletePasswordReset stores the new hash and consumes the reset token.
func (u *User) CompletePasswordReset(passwordHash string) {
	u.PasswordHash = passwordHash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
}
