package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eatwell/eatwell-backend/internal/app/model"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, values := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "seed.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"restaurants": {
			{"name", "location", "rating", "ratingCount", "cuisines", "priceForTwo", "totalSeats", "timeSlots", "info"},
			{"Spice Route", "Bangalore", "4.4", "120", "North Indian, Mughlai", "1200", "30", "12,13,19", "Rooftop"},
			{"", "Bangalore", "4.0", "3", "Cafe", "300", "10", "9"},
			{"Broken Seats", "Pune", "3.9", "7", "Cafe", "300", "lots", "9"},
		},
		"products": {
			{"name", "price", "category", "stockQuantity", "image"},
			{"Filter Coffee", "3.5", "beverages", "40", "https://cdn.example.com/coffee.png"},
			{"Free Sample", "", "misc", ""},
			{"Bad Price", "cheap", "misc", "1"},
		},
	})

	data, err := readWorkbook(path)
	require.NoError(t, err)

	require.Len(t, data.restaurants, 1)
	assert.Equal(t, 2, data.skippedRestaurants)
	r := data.restaurants[0]
	assert.Equal(t, "Spice Route", r.Name)
	assert.Equal(t, 4.4, r.Rating)
	assert.Equal(t, 120, r.RatingCount)
	assert.Equal(t, model.StringList{"North Indian", "Mughlai"}, r.Cuisines)
	assert.Equal(t, model.Int64List{12, 13, 19}, r.TimeSlots)
	assert.Equal(t, 30, r.TotalSeats)
	assert.Equal(t, model.StringList{"Rooftop"}, r.Info)

	require.Len(t, data.products, 2)
	assert.Equal(t, 1, data.skippedProducts)
	assert.Equal(t, "Filter Coffee", data.products[0].Name)
	assert.Equal(t, 40, data.products[0].StockQuantity)
	assert.Equal(t, "https://cdn.example.com/coffee.png", data.products[0].ImageURL)
	assert.Zero(t, data.products[1].Price)
}

func TestReadWorkbook_NoKnownSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"stores": {{"name"}, {"Nope"}},
	})

	_, err := readWorkbook(path)
	assert.Error(t, err)
}
