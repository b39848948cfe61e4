package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eatwell/eatwell-backend/config"
	"github.com/eatwell/eatwell-backend/internal/app/controller"
	"github.com/eatwell/eatwell-backend/internal/middleware"
)

// Controllers are the handlers one backend serves. Routes of nil controllers are not mounted.
type Controllers struct {
	Auth         *controller.AuthController
	Products     *controller.ProductController
	Restaurants  *controller.RestaurantController
	Reservations *controller.ReservationController
	Reviews      *controller.ReviewController
	Feed         *controller.AvailabilityFeedController
}

type Router struct {
	service        string
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	logoutEnabled  bool
	config         *config.Config
}

func NewRouter(
	service string,
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	logoutEnabled bool,
	cfg *config.Config,
) *Router {
	return &Router{
		service:        service,
		controllers:    controllers,
		authMiddleware: authMiddleware,
		logoutEnabled:  logoutEnabled,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": r.service,
		})
	})

	if auth := r.controllers.Auth; auth != nil {
		router.POST("/register", auth.Register)
		router.GET("/verify-account/:token", auth.VerifyAccount)
		router.POST("/login", auth.Login)
		router.POST("/forgot-password", auth.ForgotPassword)
		router.GET("/reset-password/verify", auth.VerifyResetToken)
		router.POST("/reset-password", auth.ResetPassword)
		router.GET("/me", r.authMiddleware.Authenticate(), auth.GetMe)

		if r.logoutEnabled {
			router.POST("/logout", r.authMiddleware.Authenticate(), auth.Logout)
		}
	}

	if products := r.controllers.Products; products != nil {
		group := router.Group("/products")
		group.Use(r.authMiddleware.Authenticate())
		{
			group.GET("", products.ListProducts)
			group.GET("/:id", products.GetProduct)
		}
	}

	if restaurants := r.controllers.Restaurants; restaurants != nil {
		group := router.Group("/restaurants")
		{
			group.GET("", restaurants.ListRestaurants)
			group.GET("/:id", restaurants.GetRestaurant)
			group.GET("/:id/availability", restaurants.GetAvailability)

			if feed := r.controllers.Feed; feed != nil {
				group.GET("/:id/availability/live", feed.Watch)
			}

			if reviews := r.controllers.Reviews; reviews != nil {
				group.GET("/:id/reviews", reviews.ListReviews)
				group.POST("/:id/reviews", r.authMiddleware.Authenticate(), reviews.CreateReview)
			}
		}
		router.POST("/add-restaurants", restaurants.CreateRestaurant)
	}

	if reservations := r.controllers.Reservations; reservations != nil {
		group := router.Group("/reservations")
		group.Use(r.authMiddleware.Authenticate())
		{
			group.GET("", reservations.ListMyReservations)
			group.POST("", reservations.CreateReservation)
		}
	}

	return router
}
