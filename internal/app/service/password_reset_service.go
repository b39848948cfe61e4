package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/mailer"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"github.com/eatwell/eatwell-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

type PasswordResetService interface {
	RequestReset(email string) error
	// VerifyResetToken returns the name of the user the token belongs to.
	VerifyResetToken(token string) (string, error)
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	userRepo  repository.UserRepository
	mail      mailer.Gateway
	clientURL string
	resetTTL  time.Duration
	now       func() time.Time
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	mail mailer.Gateway,
	clientURL string,
	resetTTL time.Duration,
) PasswordResetService {
	return &passwordResetService{
		userRepo:  userRepo,
		mail:      mail,
		clientURL: clientURL,
		resetTTL:  resetTTL,
		now:       utcNow,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	email = normalizeEmail(email)

	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	if err := ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return ErrUserNotFound
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, err := util.GenerateSecureToken(util.OneTimeTokenBytes)
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	// A new request replaces any link sent before
	user.StartPasswordReset(token, s.now().Add(s.resetTTL))
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	msg := mailer.PasswordResetMessage(mailer.ResetLink(s.clientURL, token))
	if err := s.mail.Send(user.Email, msg.Subject, msg.Body); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return nil
}

func (s *passwordResetService) VerifyResetToken(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByResetToken(token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidResetToken
		}
		return "", err
	}
	return user.Name, nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	logger.Info("Processing password reset", nil)

	if err := ValidateNewPassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByResetToken(token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset failed: invalid or expired token", nil)
			return ErrInvalidResetToken
		}
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	user.CompletePasswordReset(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}
