package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"pool-league/internal/eventbus"
	"pool-league/internal/models"
	"pool-league/internal/scoring"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

type WebSocketHandler struct {
	hub *Hub
	bus *eventbus.EventBus
}

func NewWebSocketHandler() *WebSocketHandler {
	hub := NewHub()
	go hub.Run()
	return &WebSocketHandler{hub: hub}
}

// SetEventBus attaches the cross-instance event bus. Must be called
// before serving traffic; without it broadcasts stay local.
func (h *WebSocketHandler) SetEventBus(bus *eventbus.EventBus) {
	h.bus = bus
}

// Hub maintains active connections and broadcasts messages
type Hub struct {
	// Map of matchId -> map of viewerId -> connection
	matches map[string]map[string]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	matchId  string
	viewerId string
	send     chan []byte
}

type BroadcastMessage struct {
	MatchId         string
	Message         []byte
	ExcludeViewerId string
}

type WSMessage struct {
	Type      string              `json:"type"`
	Match     *models.Match       `json:"match,omitempty"`
	OnTheHill bool                `json:"onTheHill"`
	WinnerID  *primitive.ObjectID `json:"winnerId,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		matches:    make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.matches[client.matchId] == nil {
				h.matches[client.matchId] = make(map[string]*Client)
			}
			h.matches[client.matchId][client.viewerId] = client
			h.mu.Unlock()
			log.Printf("Client registered: match=%s viewer=%s", client.matchId, client.viewerId)

		case client := <-h.unregister:
			h.mu.Lock()
			if viewers, ok := h.matches[client.matchId]; ok {
				if _, ok := viewers[client.viewerId]; ok {
					delete(viewers, client.viewerId)
					close(client.send)
					if len(viewers) == 0 {
						delete(h.matches, client.matchId)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Client unregistered: match=%s viewer=%s", client.matchId, client.viewerId)

		case msg := <-h.broadcast:
			// Write lock: slow clients are evicted from the viewer map here.
			h.mu.Lock()
			if viewers, ok := h.matches[msg.MatchId]; ok {
				for viewerId, client := range viewers {
					if viewerId != msg.ExcludeViewerId {
						select {
						case client.send <- msg.Message:
						default:
							close(client.send)
							delete(viewers, viewerId)
						}
					}
				}
				if len(viewers) == 0 {
					delete(h.matches, msg.MatchId)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) BroadcastToMatch(matchId string, message []byte, excludeViewerId string) {
	h.broadcast <- &BroadcastMessage{
		MatchId:         matchId,
		Message:         message,
		ExcludeViewerId: excludeViewerId,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	matchId := vars["matchId"]
	viewerId := r.URL.Query().Get("viewerId")

	if matchId == "" || viewerId == "" {
		http.Error(w, "Missing matchId or viewerId", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		matchId:  matchId,
		viewerId: viewerId,
		send:     make(chan []byte, 256),
	}

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastMatchUpdate sends the current match state to every viewer of a
// match, on this instance and (via the event bus) on every other one.
func (h *WebSocketHandler) BroadcastMatchUpdate(matchId string, match *models.Match, excludeViewerId string) {
	msg := WSMessage{
		Type:      "match_update",
		Match:     match,
		OnTheHill: scoring.OnTheHill(match),
		WinnerID:  scoring.MatchWinner(match),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal match update: %v", err)
		return
	}
	h.hub.BroadcastToMatch(matchId, data, excludeViewerId)
	if h.bus != nil {
		h.bus.PublishBroadcast(matchId, data, excludeViewerId)
	}
}

// BroadcastLocal delivers an event-bus message to viewers connected to
// this instance. Wired as the EventBus callback.
func (h *WebSocketHandler) BroadcastLocal(matchId string, message []byte, excludeViewerId string) {
	h.hub.BroadcastToMatch(matchId, message, excludeViewerId)
}
