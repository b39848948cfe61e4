package repository

import (
	"testing"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_CreateAndList(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	first := newTestRestaurant("First", "Indiranagar", "Cafe")
	second := newTestRestaurant("Second", "Indiranagar", "Cafe")
	require.NoError(t, testDB.Create(first).Error)
	require.NoError(t, testDB.Create(second).Error)

	repo := NewReviewRepository(testDB)
	require.NoError(t, repo.Create(&model.Review{
		RestaurantID: first.ID, UserEmail: "a@example.com", UserName: "A", Rating: 5, Text: "Great",
	}))
	require.NoError(t, repo.Create(&model.Review{
		RestaurantID: first.ID, UserEmail: "b@example.com", UserName: "B", Rating: 3, Text: "Fine",
	}))
	require.NoError(t, repo.Create(&model.Review{
		RestaurantID: second.ID, UserEmail: "a@example.com", UserName: "A", Rating: 4, Text: "Good",
	}))

	reviews, err := repo.FindByRestaurantID(first.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	reviews, err = repo.FindByRestaurantID(second.ID + 10)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
