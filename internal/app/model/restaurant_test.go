package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestModelsParse(t *testing.T) {
	models := []interface{}{&User{}, &Product{}, &Restaurant{}, &Reservation{}, &Review{}}
	for _, m := range models {
		_, err := schema.Parse(m, &sync.Map{}, schema.NamingStrategy{})
		assert.NoError(t, err, "%T", m)
	}

	s, err := schema.Parse(&Restaurant{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	for _, name := range []string{"Cuisines", "Info", "OtherImages", "MenuImages", "TimeSlots"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.NotEmpty(t, field.DataType, name)
	}
}

func TestRestaurant_AddRating(t *testing.T) {
	tests := []struct {
		name        string
		restaurant  Restaurant
		rating      int
		wantDisplay float64
		wantTotal   float64
		wantCount   int
	}{
		{name: "first review", restaurant: Restaurant{Rating: 4.2}, rating: 3, wantDisplay: 3, wantTotal: 3, wantCount: 1},
		{name: "tracked total", restaurant: Restaurant{Rating: 4.5, RatingSum: 9, RatingCount: 2}, rating: 2, wantDisplay: 3.7, wantTotal: 11, wantCount: 3},
		{name: "legacy row without total", restaurant: Restaurant{Rating: 4, RatingCount: 10}, rating: 5, wantDisplay: 4.1, wantTotal: 45, wantCount: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display, total, count := tt.restaurant.AddRating(tt.rating)
			assert.Equal(t, tt.wantDisplay, display)
			assert.InDelta(t, tt.wantTotal, total, 1e-9)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestRestaurant_BeforeCreateDerivesTotal(t *testing.T) {
	r := &Restaurant{Rating: 4.5, RatingCount: 8}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, 36.0, r.RatingSum)

	kept := &Restaurant{Rating: 4.5, RatingCount: 8, RatingSum: 35.7}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, 35.7, kept.RatingSum)
}
