package repository

import (
	"strings"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RestaurantFilter narrows a restaurant listing. Both matches are case-insensitive substrings.
type RestaurantFilter struct {
	Location string // matched against location
	Search   string // matched against name or any cuisine
}

type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	BulkCreate(restaurants []model.Restaurant, batchSize int) error
	FindByID(id uint) (*model.Restaurant, error)
	// FindByIDForUpdate locks the restaurant row until the surrounding transaction ends.
	FindByIDForUpdate(id uint) (*model.Restaurant, error)
	FindAll(filter RestaurantFilter) ([]model.Restaurant, error)
	UpdateRating(id uint, rating, ratingSum float64, ratingCount int) error
	WithTx(tx *gorm.DB) RestaurantRepository
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) WithTx(tx *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: tx}
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in database", map[string]interface{}{
		"name":     restaurant.Name,
		"location": restaurant.Location,
	})

	if err := r.db.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in database", err, map[string]interface{}{
			"name": restaurant.Name,
		})
		return err
	}

	logger.Debug("Restaurant created in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})
	return nil
}

func (r *restaurantRepository) BulkCreate(restaurants []model.Restaurant, batchSize int) error {
	if len(restaurants) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(restaurants, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create restaurants", err, map[string]interface{}{
			"count": len(restaurants),
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) FindByID(id uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.First(&restaurant, id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) FindByIDForUpdate(id uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) FindAll(filter RestaurantFilter) ([]model.Restaurant, error) {
	logger.Debug("Finding restaurants", map[string]interface{}{
		"location": filter.Location,
		"search":   filter.Search,
	})

	query := r.db.Model(&model.Restaurant{})

	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("LOWER(location) LIKE ? ESCAPE '\\'", likePattern(location))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(
			"LOWER(name) LIKE ? ESCAPE '\\' OR LOWER("+r.cuisinesText()+") LIKE ? ESCAPE '\\'",
			pattern, pattern,
		)
	}

	var restaurants []model.Restaurant
	if err := query.Order("rating DESC, id ASC").Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find restaurants", err)
		return nil, err
	}

	logger.Debug("Restaurants found", map[string]interface{}{
		"count": len(restaurants),
	})
	return restaurants, nil
}

func (r *restaurantRepository) UpdateRating(id uint, rating, ratingSum float64, ratingCount int) error {
	return r.db.Model(&model.Restaurant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"rating_sum":   ratingSum,
			"rating_count": ratingCount,
		}).Error
}

// cuisinesText renders the cuisines column as searchable text for the active dialect.
func (r *restaurantRepository) cuisinesText() string {
	if r.db.Dialector.Name() == "postgres" {
		return "array_to_string(cuisines, ',')"
	}
	return "cuisines"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
