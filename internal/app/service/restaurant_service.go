package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/eatwell/eatwell-backend/internal/app/model"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound      = errors.New("restaurant not found")
	ErrImageStorageUnavailable = errors.New("image storage is not configured")
)

// Folders restaurant images are uploaded to.
const (
	mainImageFolder  = "restaurants/main"
	otherImageFolder = "restaurants/other"
	menuImageFolder  = "restaurants/menu"
)

// ImageStorage persists an uploaded image and returns its public URL.
type ImageStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
}

type RestaurantInput struct {
	Name        string
	Rating      float64
	RatingCount int
	Cuisines    []string
	PriceForTwo int
	Address     string
	Location    string
	OpeningTime string
	ClosingTime string
	Phone       string
	Direction   string
	Info        []string
	TotalSeats  int
	TimeSlots   []int64
}

// RestaurantImages are the files attached to a new restaurant. Every field is optional.
type RestaurantImages struct {
	Main   *multipart.FileHeader
	Others []*multipart.FileHeader
	Menus  []*multipart.FileHeader
}

func (i RestaurantImages) empty() bool {
	return i.Main == nil && len(i.Others) == 0 && len(i.Menus) == 0
}

type RestaurantService interface {
	ListRestaurants(location, query string) ([]model.Restaurant, error)
	GetRestaurant(id uint) (*model.Restaurant, error)
	CreateRestaurant(ctx context.Context, input RestaurantInput, images RestaurantImages) (*model.Restaurant, error)
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
	images         ImageStorage
}

// NewRestaurantService builds the restaurant service. images may be nil when uploads are disabled.
func NewRestaurantService(restaurantRepo repository.RestaurantRepository, images ImageStorage) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		images:         images,
	}
}

func (s *restaurantService) ListRestaurants(location, query string) ([]model.Restaurant, error) {
	restaurants, err := s.restaurantRepo.FindAll(repository.RestaurantFilter{
		Location: location,
		Search:   query,
	})
	if err != nil {
		logger.Error("Failed to list restaurants", err, map[string]interface{}{
			"location": location,
			"q":        query,
		})
		return nil, err
	}
	return restaurants, nil
}

func (s *restaurantService) GetRestaurant(id uint) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, input RestaurantInput, images RestaurantImages) (*model.Restaurant, error) {
	logger.Info("Creating restaurant", map[string]interface{}{
		"name":     input.Name,
		"location": input.Location,
	})

	if err := ValidateRestaurant(input); err != nil {
		return nil, err
	}
	if !images.empty() && s.images == nil {
		return nil, ErrImageStorageUnavailable
	}

	restaurant := &model.Restaurant{
		Name:        strings.TrimSpace(input.Name),
		Rating:      input.Rating,
		RatingCount: input.RatingCount,
		Cuisines:    model.StringList(trimAll(input.Cuisines)),
		PriceForTwo: input.PriceForTwo,
		Address:     strings.TrimSpace(input.Address),
		Location:    strings.TrimSpace(input.Location),
		OpeningTime: strings.TrimSpace(input.OpeningTime),
		ClosingTime: strings.TrimSpace(input.ClosingTime),
		Phone:       strings.TrimSpace(input.Phone),
		Direction:   strings.TrimSpace(input.Direction),
		Info:        model.StringList(trimAll(input.Info)),
		TotalSeats:  input.TotalSeats,
		TimeSlots:   model.Int64List(input.TimeSlots),
	}

	if images.Main != nil {
		url, err := s.images.Upload(ctx, images.Main, mainImageFolder)
		if err != nil {
			return nil, err
		}
		restaurant.MainImage = url
	}

	var err error
	if restaurant.OtherImages, err = s.uploadAll(ctx, images.Others, otherImageFolder); err != nil {
		return nil, err
	}
	if restaurant.MenuImages, err = s.uploadAll(ctx, images.Menus, menuImageFolder); err != nil {
		return nil, err
	}

	if err := s.restaurantRepo.Create(restaurant); err != nil {
		return nil, err
	}

	logger.Info("Restaurant created", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
		"images":        len(restaurant.OtherImages) + len(restaurant.MenuImages),
	})
	return restaurant, nil
}

func (s *restaurantService) uploadAll(ctx context.Context, files []*multipart.FileHeader, folder string) (model.StringList, error) {
	urls := model.StringList{}
	for _, file := range files {
		url, err := s.images.Upload(ctx, file, folder)
		if err != nil {
			logger.Error("Failed to upload restaurant image", err, map[string]interface{}{
				"filename": file.Filename,
				"folder":   folder,
			})
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// trimAll trims every item and drops the empty ones.
func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
