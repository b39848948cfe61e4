package repository

import (
	"time"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	// FindByVerificationToken only matches tokens that expire after now.
	FindByVerificationToken(token string, now time.Time) (*model.User, error)
	// FindByResetToken only matches tokens that expire after now.
	FindByResetToken(token string, now time.Time) (*model.User, error)
	Update(user *model.User) error
	ClearExpiredTokens(now time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByVerificationToken(token string, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.
		Where("verification_token = ? AND verification_expires > ?", token, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(token string, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.
		Where("reset_password_token = ? AND reset_password_expires > ?", token, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
		return err
	}
	return nil
}

// ClearExpiredTokens drops one-time tokens whose expiry has passed and
// returns how many token pairs were cleared.
func (r *userRepository) ClearExpiredTokens(now time.Time) (int64, error) {
	var cleared int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("verification_expires IS NOT NULL AND verification_expires <= ?", now).
			Updates(map[string]interface{}{
				"verification_token":   nil,
				"verification_expires": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		cleared += result.RowsAffected

		result = tx.Model(&model.User{}).
			Where("reset_password_expires IS NOT NULL AND reset_password_expires <= ?", now).
			Updates(map[string]interface{}{
				"reset_password_token":   nil,
				"reset_password_expires": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		cleared += result.RowsAffected
		return nil
	})
	if err != nil {
		logger.Error("Failed to clear expired tokens", err)
		return 0, err
	}

	logger.Debug("Expired tokens cleared", map[string]interface{}{
		"count": cleared,
	})
	return cleared, nil
}
