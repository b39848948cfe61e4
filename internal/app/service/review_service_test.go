package service

import (
	"testing"

	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_AddReview(t *testing.T) {
	testDB := setupServiceDB(t)
	userRepo := repository.NewUserRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)
	svc := NewReviewService(testDB, userRepo, restaurantRepo, repository.NewReviewRepository(testDB))

	user := newVerifiedUser("Critic", "critic@example.com", "hash")
	require.NoError(t, userRepo.Create(user))
	restaurant := createTestRestaurant(t, testDB, "Reviewed", 10)

	review, err := svc.AddReview(user.ID, restaurant.ID, 5, "  Superb  ")
	require.NoError(t, err)
	assert.Equal(t, "Critic", review.UserName)
	assert.Equal(t, "critic@example.com", review.UserEmail)
	assert.Equal(t, "Superb", review.Text)

	_, err = svc.AddReview(user.ID, restaurant.ID, 2, "Slow service")
	require.NoError(t, err)

	stored, err := restaurantRepo.FindByID(restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.RatingCount)
	assert.Equal(t, 3.5, stored.Rating)

	reviews, err := svc.ListReviews(restaurant.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReviewService_AverageStaysExactOverManyReviews(t *testing.T) {
	testDB := setupServiceDB(t)
	userRepo := repository.NewUserRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)
	svc := NewReviewService(testDB, userRepo, restaurantRepo, repository.NewReviewRepository(testDB))

	user := newVerifiedUser("Regular", "regular@example.com", "hash")
	require.NoError(t, userRepo.Create(user))
	restaurant := createTestRestaurant(t, testDB, "Popular", 10)

	for i := 0; i < 20; i++ {
		_, err := svc.AddReview(user.ID, restaurant.ID, 5, "Loved it")
		require.NoError(t, err)
	}
	for i := 0; i < 31; i++ {
		_, err := svc.AddReview(user.ID, restaurant.ID, 4, "Pretty good")
		require.NoError(t, err)
	}

	stored, err := restaurantRepo.FindByID(restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 51, stored.RatingCount)
	assert.Equal(t, 224.0, stored.RatingSum)
	assert.Equal(t, 4.4, stored.Rating) // 224 / 51 = 4.39
}

func TestReviewService_SeededRatingKeepsItsWeight(t *testing.T) {
	testDB := setupServiceDB(t)
	userRepo := repository.NewUserRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)
	svc := NewReviewService(testDB, userRepo, restaurantRepo, repository.NewReviewRepository(testDB))

	user := newVerifiedUser("Newcomer", "newcomer@example.com", "hash")
	require.NoError(t, userRepo.Create(user))

	restaurant := createTestRestaurant(t, testDB, "Established", 10)
	require.NoError(t, testDB.Model(restaurant).Updates(map[string]interface{}{
		"rating": 4.0, "rating_count": 10, "rating_sum": 0,
	}).Error)

	_, err := svc.AddReview(user.ID, restaurant.ID, 1, "Disappointing")
	require.NoError(t, err)

	stored, err := restaurantRepo.FindByID(restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, stored.RatingCount)
	assert.Equal(t, 41.0, stored.RatingSum)
	assert.Equal(t, 3.7, stored.Rating) // (4.0*10 + 1) / 11
}

func TestReviewService_Errors(t *testing.T) {
	testDB := setupServiceDB(t)
	userRepo := repository.NewUserRepository(testDB)
	svc := NewReviewService(
		testDB,
		userRepo,
		repository.NewRestaurantRepository(testDB),
		repository.NewReviewRepository(testDB),
	)

	user := newVerifiedUser("Critic", "critic@example.com", "hash")
	require.NoError(t, userRepo.Create(user))
	restaurant := createTestRestaurant(t, testDB, "Reviewed", 10)

	tests := []struct {
		name         string
		userID       uint
		restaurantID uint
		rating       int
		text         string
		wantErr      error
	}{
		{name: "rating too high", userID: user.ID, restaurantID: restaurant.ID, rating: 6, text: "x", wantErr: ErrValidation},
		{name: "empty text", userID: user.ID, restaurantID: restaurant.ID, rating: 4, text: " ", wantErr: ErrValidation},
		{name: "unknown user", userID: user.ID + 10, restaurantID: restaurant.ID, rating: 4, text: "ok", wantErr: ErrUserNotFound},
		{name: "unknown restaurant", userID: user.ID, restaurantID: restaurant.ID + 10, rating: 4, text: "ok", wantErr: ErrRestaurantNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := svc.AddReview(tt.userID, tt.restaurantID, tt.rating, tt.text)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, review)
		})
	}

	_, err := svc.ListReviews(restaurant.ID + 10)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}
