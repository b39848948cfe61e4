package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/mailer"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"github.com/eatwell/eatwell-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrEmailNotRegistered       = errors.New("email not registered")
	ErrAccountNotVerified       = errors.New("account not verified")
	ErrIncorrectPassword        = errors.New("incorrect password")
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	ErrUserNotFound             = errors.New("user not found")
	ErrNotificationFailed       = errors.New("failed to send notification")
	ErrLogoutUnavailable        = errors.New("session revocation is not configured")
)

// SessionRevoker remembers revoked session tokens until they would have expired.
type SessionRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type AuthConfig struct {
	JWTSecret       string
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	ClientURL       string
}

// RegisterResult tells whether registration created a user or resent the
// verification email to an unverified one.
type RegisterResult struct {
	User   *model.User
	Resent bool
}

type AuthService interface {
	Register(name, email, password string) (*RegisterResult, error)
	VerifyAccount(token string) (*model.User, error)
	Login(email, password string) (*model.User, string, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	mail     mailer.Gateway
	revoker  SessionRevoker
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService builds the auth service. revoker may be nil, which disables logout.
func NewAuthService(
	userRepo repository.UserRepository,
	mail mailer.Gateway,
	cfg AuthConfig,
	revoker SessionRevoker,
) AuthService {
	return &authService{
		userRepo: userRepo,
		mail:     mail,
		revoker:  revoker,
		cfg:      cfg,
		now:      utcNow,
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func (s *authService) Register(name, email, password string) (*RegisterResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	if err := ValidateRegistration(name, email, password); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existingUser != nil && existingUser.IsVerified {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	token, err := util.GenerateSecureToken(util.OneTimeTokenBytes)
	if err != nil {
		logger.Error("Failed to generate verification token", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	expiresAt := s.now().Add(s.cfg.VerificationTTL)

	result := &RegisterResult{}
	if existingUser != nil {
		// Unverified account: take the new details and issue a fresh link
		existingUser.Name = name
		existingUser.PasswordHash = hashedPassword
		existingUser.StartVerification(token, expiresAt)
		if err := s.userRepo.Update(existingUser); err != nil {
			return nil, err
		}
		result.User = existingUser
		result.Resent = true
	} else {
		user := &model.User{
			Name:         name,
			Email:        email,
			PasswordHash: hashedPassword,
		}
		user.StartVerification(token, expiresAt)
		if err := s.userRepo.Create(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrEmailAlreadyExists
			}
			return nil, err
		}
		result.User = user
	}

	msg := mailer.VerificationMessage(mailer.VerificationLink(s.cfg.ClientURL, token))
	if err := s.mail.Send(email, msg.Subject, msg.Body); err != nil {
		logger.Error("Failed to send verification email", err, map[string]interface{}{
			"user_id": result.User.ID,
			"email":   email,
		})
		return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": result.User.ID,
		"email":   email,
		"resent":  result.Resent,
	})

	return result, nil
}

func (s *authService) VerifyAccount(token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidVerificationToken
	}

	user, err := s.userRepo.FindByVerificationToken(token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Account verification failed: invalid or expired token", nil)
			return nil, ErrInvalidVerificationToken
		}
		return nil, err
	}

	user.CompleteVerification()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Account verified", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	if err := ValidateLogin(email, password); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: email not registered", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrEmailNotRegistered
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	// Unverified accounts are refused whatever the password
	if !user.IsVerified {
		logger.Warn("Login failed: account not verified", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrAccountNotVerified
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: incorrect password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrIncorrectPassword
	}

	token, err := util.GenerateSessionToken(user.ID, user.Email, s.cfg.JWTSecret, s.cfg.SessionTTL)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if s.revoker == nil {
		return ErrLogoutUnavailable
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.revoker.Revoke(ctx, token, ttl); err != nil {
		logger.Error("Failed to revoke session token", err)
		return err
	}
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
