package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eatwell/eatwell-backend/internal/app/service"
	apperrors "github.com/eatwell/eatwell-backend/internal/errors"
	"github.com/eatwell/eatwell-backend/internal/middleware"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
}

func NewAuthController(authService service.AuthService, passwordResetService service.PasswordResetService) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
	}
}

// Field rules live in service/validation.go and run before any lookup.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Register handles user registration
// POST /register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration data")
		return
	}

	result, err := ctrl.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case respondValidation(c, err):
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email already registered. Please log in")
		case errors.Is(err, service.ErrNotificationFailed):
			log.Error("Verification email could not be sent", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalNotification, "Failed to send verification email. Please try again")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		}
		return
	}

	if result.Resent {
		c.JSON(http.StatusOK, gin.H{
			"message": "Verification email resent. Please check your inbox",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email to verify your account",
	})
}

// VerifyAccount consumes an emailed verification token
// GET /verify-account/:token
func (ctrl *AuthController) VerifyAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	user, err := ctrl.authService.VerifyAccount(c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidVerificationToken) {
			apperrors.BadRequest(c, apperrors.AuthVerificationFailed, "Invalid or expired verification link")
			return
		}
		log.Error("Account verification failed", err)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Account verified", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Account verified successfully. You can now log in",
	})
}

// Login handles user login
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login data")
		return
	}

	user, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case respondValidation(c, err):
		case errors.Is(err, service.ErrEmailNotRegistered):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthEmailNotRegistered, "Email not registered. Please sign up first")
		case errors.Is(err, service.ErrAccountNotVerified):
			apperrors.Forbidden(c, apperrors.AuthEmailNotVerified, "Please verify your email before logging in")
		case errors.Is(err, service.ErrIncorrectPassword):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect password")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successful",
		"token":   token,
	})
}

// Logout revokes the current session token
// POST /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, expiresAt, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, expiresAt); err != nil {
		log.Error("Logout failed", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetMe returns the session user
// GET /me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// ForgotPassword emails a password reset link
// POST /forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email is required")
		return
	}

	if err := ctrl.passwordResetService.RequestReset(req.Email); err != nil {
		switch {
		case respondValidation(c, err):
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "No account found with that email")
		case errors.Is(err, service.ErrNotificationFailed):
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalNotification, "Failed to send password reset email. Please try again")
		default:
			log.Error("Password reset request failed", err)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset link has been sent to your email",
	})
}

// VerifyResetToken checks a reset link before the new password form is shown
// GET /reset-password/verify?token=
func (ctrl *AuthController) VerifyResetToken(c *gin.Context) {
	name, err := ctrl.passwordResetService.VerifyResetToken(c.Query("token"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			apperrors.BadRequest(c, apperrors.AuthResetTokenInvalid, "Password reset token is invalid or has expired")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": name,
	})
}

// ResetPassword sets a new password using a reset token
// POST /reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid password reset data")
		return
	}

	if err := ctrl.passwordResetService.ResetPassword(req.Token, req.NewPassword); err != nil {
		switch {
		case respondValidation(c, err):
		case errors.Is(err, service.ErrInvalidResetToken):
			apperrors.BadRequest(c, apperrors.AuthResetTokenInvalid, "Password reset token is invalid or has expired")
		default:
			log.Error("Password reset failed", err)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset successfully",
	})
}
