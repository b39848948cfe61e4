package websocket

import (
	"encoding/json"

	"github.com/eatwell/eatwell-backend/internal/app/service"
	"github.com/eatwell/eatwell-backend/pkg/logger"
)

const sendBufferSize = 64

// Client is one websocket watching the seats of one restaurant
type Client struct {
	Hub          *Hub
	Conn         *Conn
	RestaurantID uint
	Send         chan []byte
}

func NewClient(hub *Hub, conn *Conn, restaurantID uint) *Client {
	return &Client{
		Hub:          hub,
		Conn:         conn,
		RestaurantID: restaurantID,
		Send:         make(chan []byte, sendBufferSize),
	}
}

// AvailabilityMessage is pushed to watchers after every admitted booking
type AvailabilityMessage struct {
	Type string `json:"type"`
	service.Availability
}

type broadcastMessage struct {
	restaurantID uint
	payload      []byte
}

// Hub fans availability updates out to the watchers of each restaurant
type Hub struct {
	watchers map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	counts     chan countRequest
	quit       chan struct{}
}

type countRequest struct {
	restaurantID uint
	reply        chan int
}

func NewHub() *Hub {
	return &Hub{
		watchers:   make(map[uint]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan broadcastMessage, 1024),
		counts:     make(chan countRequest),
		quit:       make(chan struct{}),
	}
}

// Run owns the watcher map until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			clients, ok := h.watchers[client.RestaurantID]
			if !ok {
				clients = make(map[*Client]bool)
				h.watchers[client.RestaurantID] = clients
			}
			clients[client] = true
			logger.Debug("Availability watcher registered", map[string]interface{}{
				"restaurant_id": client.RestaurantID,
				"watchers":      len(clients),
			})

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			for client := range h.watchers[msg.restaurantID] {
				select {
				case client.Send <- msg.payload:
				default:
					// Slow reader, drop it rather than block every other watcher
					logger.Warn("Watcher send buffer full, disconnecting", map[string]interface{}{
						"restaurant_id": msg.restaurantID,
					})
					h.remove(client)
				}
			}

		case req := <-h.counts:
			req.reply <- len(h.watchers[req.restaurantID])

		case <-h.quit:
			for _, clients := range h.watchers {
				for client := range clients {
					close(client.Send)
				}
			}
			h.watchers = make(map[uint]map[*Client]bool)
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.watchers[client.RestaurantID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.watchers, client.RestaurantID)
	}
	close(client.Send)
}

func (h *Hub) Stop() {
	close(h.quit)
}

// Register hands the client to Run. After Stop the client is closed instead.
func (h *Hub) Register(client *Client) {
	select {
	case <-h.quit:
		close(client.Send)
		return
	default:
	}

	select {
	case h.register <- client:
	case <-h.quit:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Watchers returns how many sockets watch the restaurant
func (h *Hub) Watchers(restaurantID uint) int {
	reply := make(chan int, 1)
	select {
	case h.counts <- countRequest{restaurantID: restaurantID, reply: reply}:
		return <-reply
	case <-h.quit:
		return 0
	}
}

// PublishAvailability never blocks the booking path; a full queue drops the update.
func (h *Hub) PublishAvailability(a service.Availability) {
	payload, err := json.Marshal(AvailabilityMessage{Type: "availability", Availability: a})
	if err != nil {
		logger.Error("Failed to marshal availability update", err)
		return
	}

	select {
	case h.broadcast <- broadcastMessage{restaurantID: a.RestaurantID, payload: payload}:
	default:
		logger.Warn("Broadcast queue full, availability update dropped", map[string]interface{}{
			"restaurant_id": a.RestaurantID,
		})
	}
}
