package repository

import (
	"testing"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReservationTest(t *testing.T) (*gorm.DB, ReservationRepository, *model.Restaurant) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	restaurant := newTestRestaurant("Table Ten", "Indiranagar", "Continental")
	require.NoError(t, testDB.Create(restaurant).Error)

	return testDB, NewReservationRepository(testDB), restaurant
}

func TestReservationRepository_SumGuests(t *testing.T) {
	testDB, repo, restaurant := setupReservationTest(t)
	defer db.CleanupTestDB(testDB)

	total, err := repo.SumGuests(restaurant.ID, "2025-06-01", 19)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	bookings := []model.Reservation{
		{Email: "a@example.com", RestaurantID: restaurant.ID, Date: "2025-06-01", TimeSlot: 19, Guests: 3},
		{Email: "b@example.com", RestaurantID: restaurant.ID, Date: "2025-06-01", TimeSlot: 19, Guests: 4},
		// Different slot and different date do not share capacity
		{Email: "c@example.com", RestaurantID: restaurant.ID, Date: "2025-06-01", TimeSlot: 20, Guests: 5},
		{Email: "d@example.com", RestaurantID: restaurant.ID, Date: "2025-06-02", TimeSlot: 19, Guests: 6},
	}
	for i := range bookings {
		require.NoError(t, repo.Create(&bookings[i]))
	}

	tests := []struct {
		name     string
		date     string
		timeSlot int
		want     int
	}{
		{name: "shared bucket", date: "2025-06-01", timeSlot: 19, want: 7},
		{name: "other slot", date: "2025-06-01", timeSlot: 20, want: 5},
		{name: "other date", date: "2025-06-02", timeSlot: 19, want: 6},
		{name: "empty bucket", date: "2025-06-03", timeSlot: 19, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := repo.SumGuests(restaurant.ID, tt.date, tt.timeSlot)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
		})
	}
}

func TestReservationRepository_FindByEmail(t *testing.T) {
	testDB, repo, restaurant := setupReservationTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Reservation{
		Email: "me@example.com", RestaurantID: restaurant.ID, Date: "2025-06-01", TimeSlot: 19, Guests: 2,
	}))
	require.NoError(t, repo.Create(&model.Reservation{
		Email: "me@example.com", RestaurantID: restaurant.ID, Date: "2025-06-02", TimeSlot: 18, Guests: 4,
	}))
	require.NoError(t, repo.Create(&model.Reservation{
		Email: "other@example.com", RestaurantID: restaurant.ID, Date: "2025-06-01", TimeSlot: 19, Guests: 1,
	}))

	reservations, err := repo.FindByEmail("me@example.com")
	require.NoError(t, err)
	require.Len(t, reservations, 2)
	for _, r := range reservations {
		assert.Equal(t, "me@example.com", r.Email)
		require.NotNil(t, r.Restaurant)
		assert.Equal(t, "Table Ten", r.Restaurant.Name)
	}
}

func TestReservationRepository_WithTxRollback(t *testing.T) {
	testDB, repo, restaurant := setupReservationTest(t)
	defer db.CleanupTestDB(testDB)

	err := testDB.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(&model.Reservation{
			Email: "tx@example.com", RestaurantID: restaurant.ID, Date: "2025-06-01", TimeSlot: 19, Guests: 2,
		}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	total, err := repo.SumGuests(restaurant.ID, "2025-06-01", 19)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
