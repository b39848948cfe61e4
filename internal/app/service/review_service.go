package service

import (
	"errors"
	"strings"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewService interface {
	// AddReview stores the review and folds its rating into the restaurant's average.
	AddReview(userID, restaurantID uint, rating int, text string) (*model.Review, error)
	ListReviews(restaurantID uint) ([]model.Review, error)
}

type reviewService struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	restaurantRepo repository.RestaurantRepository
	reviewRepo     repository.ReviewRepository
}

func NewReviewService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	restaurantRepo repository.RestaurantRepository,
	reviewRepo repository.ReviewRepository,
) ReviewService {
	return &reviewService{
		db:             db,
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
	}
}

func (s *reviewService) AddReview(userID, restaurantID uint, rating int, text string) (*model.Review, error) {
	text = strings.TrimSpace(text)
	if err := ValidateReview(rating, text); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	review := &model.Review{
		RestaurantID: restaurantID,
		UserEmail:    user.Email,
		UserName:     user.Name,
		Rating:       rating,
		Text:         text,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		restaurants := s.restaurantRepo.WithTx(tx)
		restaurant, err := restaurants.FindByIDForUpdate(restaurantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRestaurantNotFound
			}
			return err
		}

		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			return err
		}

		display, total, count := restaurant.AddRating(rating)
		return restaurants.UpdateRating(restaurant.ID, display, total, count)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review added", map[string]interface{}{
		"review_id":     review.ID,
		"restaurant_id": restaurantID,
		"user_id":       userID,
		"rating":        rating,
	})
	return review, nil
}

func (s *reviewService) ListReviews(restaurantID uint) ([]model.Review, error) {
	if _, err := s.restaurantRepo.FindByID(restaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByRestaurantID(restaurantID)
}
