package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eatwell/eatwell-backend/config"
	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/db"
)

const (
	restaurantSheet = "restaurants"
	productSheet    = "products"
	batchSize       = 500
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./cmd/seed <xlsx_file_path> [--yes]")
	}
	filePath := os.Args[1]
	skipConfirm := len(os.Args) > 2 && os.Args[2] == "--yes"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	data, err := readWorkbook(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Restaurants to import: %d (skipped %d rows)\n", len(data.restaurants), data.skippedRestaurants)
	fmt.Printf("Products to import: %d (skipped %d rows)\n", len(data.products), data.skippedProducts)

	if !skipConfirm {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := repository.NewRestaurantRepository(db.GetDB()).BulkCreate(data.restaurants, batchSize); err != nil {
		log.Fatal("Failed to import restaurants:", err)
	}
	if err := repository.NewProductRepository(db.GetDB()).BulkCreate(data.products, batchSize); err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
}

type workbook struct {
	restaurants        []model.Restaurant
	products           []model.Product
	skippedRestaurants int
	skippedProducts    int
}

// readWorkbook reads the "restaurants" and "products" sheets. Either may be absent.
// Columns are matched by header name, list cells are comma separated.
func readWorkbook(filePath string) (*workbook, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	data := &workbook{}
	found := false

	if idx, _ := f.GetSheetIndex(restaurantSheet); idx >= 0 {
		found = true
		rows, err := f.GetRows(restaurantSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s rows: %w", restaurantSheet, err)
		}
		data.restaurants, data.skippedRestaurants = parseRestaurants(rows)
	}

	if idx, _ := f.GetSheetIndex(productSheet); idx >= 0 {
		found = true
		rows, err := f.GetRows(productSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s rows: %w", productSheet, err)
		}
		data.products, data.skippedProducts = parseProducts(rows)
	}

	if !found {
		return nil, fmt.Errorf("workbook has neither a %q nor a %q sheet", restaurantSheet, productSheet)
	}
	return data, nil
}

// row gives access to cells by lowercase header name.
type row struct {
	cells   []string
	columns map[string]int
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

func (r row) str(name string) string {
	i, ok := r.columns[strings.ToLower(name)]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r row) list(name string) model.StringList {
	var out model.StringList
	for _, part := range strings.Split(r.str(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r row) intValue(name string) (int, bool) {
	s := r.str(name)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func (r row) floatValue(name string) (float64, bool) {
	s := r.str(name)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

func parseRestaurants(rows [][]string) ([]model.Restaurant, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	columns := headerIndex(rows[0])

	var restaurants []model.Restaurant
	skipped := 0
	for _, cells := range rows[1:] {
		r := row{cells: cells, columns: columns}

		rating, okRating := r.floatValue("rating")
		ratingCount, okCount := r.intValue("ratingCount")
		price, okPrice := r.intValue("priceForTwo")
		seats, okSeats := r.intValue("totalSeats")
		slots, okSlots := parseSlots(r.list("timeSlots"))
		if r.str("name") == "" || r.str("location") == "" || !okRating || !okCount || ratingCount < 0 || !okPrice || !okSeats || !okSlots {
			skipped++
			continue
		}

		restaurants = append(restaurants, model.Restaurant{
			Name:        r.str("name"),
			Rating:      rating,
			RatingCount: ratingCount,
			Cuisines:    r.list("cuisines"),
			PriceForTwo: price,
			Address:     r.str("address"),
			Location:    r.str("location"),
			OpeningTime: r.str("openingTime"),
			ClosingTime: r.str("closingTime"),
			Phone:       r.str("phone"),
			Direction:   r.str("direction"),
			Info:        r.list("info"),
			MainImage:   r.str("mainImage"),
			OtherImages: r.list("otherImages"),
			MenuImages:  r.list("menuImages"),
			TotalSeats:  seats,
			TimeSlots:   slots,
		})
	}
	return restaurants, skipped
}

func parseSlots(raw model.StringList) (model.Int64List, bool) {
	var slots model.Int64List
	for _, s := range raw {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return nil, false
		}
		slots = append(slots, n)
	}
	return slots, true
}

func parseProducts(rows [][]string) ([]model.Product, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	columns := headerIndex(rows[0])

	var products []model.Product
	skipped := 0
	for _, cells := range rows[1:] {
		r := row{cells: cells, columns: columns}

		price, okPrice := r.floatValue("price")
		stock, okStock := r.intValue("stockQuantity")
		if r.str("name") == "" || !okPrice || !okStock || price < 0 {
			skipped++
			continue
		}

		products = append(products, model.Product{
			Name:          r.str("name"),
			Description:   r.str("description"),
			Price:         price,
			Category:      r.str("category"),
			StockQuantity: stock,
			ImageURL:      r.str("image"),
		})
	}
	return products, skipped
}
