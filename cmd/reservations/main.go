package main

import (
	"github.com/eatwell/eatwell-backend/config"
	"github.com/eatwell/eatwell-backend/internal/app/controller"
	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/app/service"
	"github.com/eatwell/eatwell-backend/internal/router"
	"github.com/eatwell/eatwell-backend/internal/server"
	"github.com/eatwell/eatwell-backend/internal/storage"
	"github.com/eatwell/eatwell-backend/internal/websocket"
	"github.com/eatwell/eatwell-backend/pkg/logger"
)

func main() {
	err := server.Run("reservations", func(deps *server.Deps) router.Controllers {
		hub := websocket.NewHub()
		go hub.Run()
		deps.OnShutdown(hub.Stop)

		restaurantRepo := repository.NewRestaurantRepository(deps.DB)
		reservationService := service.NewReservationService(
			deps.DB,
			restaurantRepo,
			repository.NewReservationRepository(deps.DB),
			deps.Mailer,
			hub,
			deps.Config.Reservation.StrictTimeSlots,
		)
		restaurantService := service.NewRestaurantService(restaurantRepo, imageStorage(&deps.Config.S3))
		reviewService := service.NewReviewService(deps.DB, deps.Users, restaurantRepo, repository.NewReviewRepository(deps.DB))

		return router.Controllers{
			Restaurants:  controller.NewRestaurantController(restaurantService, reservationService),
			Reservations: controller.NewReservationController(reservationService),
			Reviews:      controller.NewReviewController(reviewService),
			Feed:         controller.NewAvailabilityFeedController(restaurantService, hub, deps.Config.CORS.AllowedOrigins),
		}
	})
	if err != nil {
		logger.Fatal("Reservations backend stopped", err)
	}
}

// imageStorage returns nil when no bucket is configured, which rejects image uploads.
func imageStorage(cfg *config.S3Config) service.ImageStorage {
	if cfg.Bucket == "" {
		logger.Warn("AWS_S3_BUCKET not set, restaurant images are disabled")
		return nil
	}
	return storage.NewS3Storage(cfg.Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.BaseURL)
}
