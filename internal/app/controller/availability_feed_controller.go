package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/eatwell/eatwell-backend/internal/app/service"
	apperrors "github.com/eatwell/eatwell-backend/internal/errors"
	"github.com/eatwell/eatwell-backend/internal/middleware"
	ws "github.com/eatwell/eatwell-backend/internal/websocket"
)

// AvailabilityFeedController streams seat updates of one restaurant over a websocket
type AvailabilityFeedController struct {
	restaurantService service.RestaurantService
	hub               *ws.Hub
	upgrader          websocket.Upgrader
}

func NewAvailabilityFeedController(restaurantService service.RestaurantService, hub *ws.Hub, allowedOrigins []string) *AvailabilityFeedController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &AvailabilityFeedController{
		restaurantService: restaurantService,
		hub:               hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Watch upgrades to a websocket that receives an update after every booking
// GET /restaurants/:id/availability/live
func (ctrl *AvailabilityFeedController) Watch(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid restaurant ID")
		return
	}

	if _, err := ctrl.restaurantService.GetRestaurant(id); err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, id)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Availability watcher connected", map[string]interface{}{
		"restaurant_id": id,
	})
}
