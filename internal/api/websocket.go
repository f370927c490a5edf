// websocket.go - Per-tour event push over WebSocket
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// WebSocket message types
const (
	// Server -> Client
	MsgTypeViewState   = "view"
	MsgTypeMarkerFrame = "markers"
	MsgTypeError       = "error"
	MsgTypePong        = "pong"

	// Client -> Server
	MsgTypePing = "ping"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

// WSMessage is the wire envelope for pushed events.
type WSMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// WebSocketHandler pushes tour events (view state, marker frames, errors) to
// connected clients. Slow clients have messages dropped rather than stalling
// the tour.
type WebSocketHandler struct {
	tours    TourManager
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]map[*wsClient]struct{} // tourID -> connections
}

type wsClient struct {
	conn *websocket.Conn
	send chan WSMessage
}

// NewWebSocketHandler creates the push handler.
func NewWebSocketHandler(tours TourManager, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		tours: tours,
		log:   log.With().Str("component", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]map[*wsClient]struct{}),
	}
}

// HandleWebSocket upgrades the connection and streams the tour's events
// until the client disconnects.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	tourID := c.Param("tourId")
	tour, ok := h.tours.GetTour(tourID)
	if !ok {
		return NewNotFoundError("tour", tourID)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return NewBadRequestError("websocket upgrade failed", err)
	}

	client := &wsClient{
		conn: conn,
		send: make(chan WSMessage, sendBuffer),
	}

	h.mu.Lock()
	if h.clients[tourID] == nil {
		h.clients[tourID] = make(map[*wsClient]struct{})
		// First client for this tour wires the notifier; it fans out to
		// every connection registered afterwards.
		tour.SetNotifier(func(event string, payload interface{}) {
			h.broadcast(tourID, WSMessage{
				Type:      event,
				Payload:   payload,
				Timestamp: time.Now().UnixMilli(),
			})
		})
	}
	h.clients[tourID][client] = struct{}{}
	h.mu.Unlock()

	h.log.Debug().Str("tour", tourID).Msg("websocket client connected")

	go client.writePump()
	client.readPump(h, tourID)
	return nil
}

func (h *WebSocketHandler) broadcast(tourID string, msg WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[tourID] {
		select {
		case client.send <- msg:
		default:
			// Client is not keeping up; drop the message.
		}
	}
}

func (h *WebSocketHandler) remove(tourID string, client *wsClient) {
	h.mu.Lock()
	if conns, ok := h.clients[tourID]; ok {
		if _, ok := conns[client]; ok {
			delete(conns, client)
			close(client.send)
		}
		if len(conns) == 0 {
			delete(h.clients, tourID)
		}
	}
	h.mu.Unlock()
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) readPump(h *WebSocketHandler, tourID string) {
	defer func() {
		h.remove(tourID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == MsgTypePing {
			h.tours.Touch(tourID)
			select {
			case c.send <- WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()}:
			default:
			}
		}
	}
}
