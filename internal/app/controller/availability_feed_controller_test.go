package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatwell/eatwell-backend/internal/app/repository"
	"github.com/eatwell/eatwell-backend/internal/app/service"
	ws "github.com/eatwell/eatwell-backend/internal/websocket"
)

func TestAvailabilityFeedController_Watch(t *testing.T) {
	ts := setupTestServer(t)
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	restaurantRepo := repository.NewRestaurantRepository(ts.db)
	reservations := NewReservationController(service.NewReservationService(
		ts.db, restaurantRepo, repository.NewReservationRepository(ts.db), ts.gateway, hub, true,
	))
	feed := NewAvailabilityFeedController(service.NewRestaurantService(restaurantRepo, nil), hub, []string{"http://localhost:3000"})
	ts.router.GET("/restaurants/:id/availability/live", feed.Watch)
	ts.router.POST("/reservations", ts.auth.Authenticate(), reservations.CreateReservation)

	restaurant := createRestaurant(t, ts.db, "Live", 6, 19)
	_, token := ts.createUser(t, "Watcher", "watcher@example.com", "password123", true)

	srv := httptest.NewServer(ts.router)
	t.Cleanup(srv.Close)
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("unknown restaurant", func(t *testing.T) {
		w := ts.do("GET", "/restaurants/9999/availability/live", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("foreign origin refused", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://evil.example.com"}}
		_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/restaurants/%d/availability/live", base, restaurant.ID), header)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("booking pushes new seat count", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://localhost:3000"}}
		conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/restaurants/%d/availability/live", base, restaurant.ID), header)
		require.NoError(t, err)
		defer conn.Close()
		require.Eventually(t, func() bool { return hub.Watchers(restaurant.ID) == 1 }, time.Second, 10*time.Millisecond)

		w := ts.do("POST", "/reservations", map[string]interface{}{
			"restaurantId": restaurant.ID, "date": "2024-06-01", "timeSlot": 19, "guests": 4,
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg ws.AvailabilityMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, 2, msg.Available)
		assert.Equal(t, 19, msg.TimeSlot)
	})
}
