package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tradesentinel/screening-engine/internal/alerts"
)

// heartbeatInterval paces keep-alive frames so an idle dashboard can tell
// a quiet engine apart from a dead socket.
const heartbeatInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for local dashboard
	},
}

// StreamFrame is the JSON envelope pushed to /stream subscribers. Kind lets
// a dashboard multiplex screening alerts and heartbeats over one socket.
type StreamFrame struct {
	Kind   string        `json:"kind"`
	Alert  *alerts.Alert `json:"alert,omitempty"`
	SentAt time.Time     `json:"sentAt"`
}

// Hub maintains the set of active websocket clients and pushes screening
// alert frames to compliance dashboards.
type Hub struct {
	clients map[*websocket.Conn]bool
	frames  chan StreamFrame
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		frames:  make(chan StreamFrame, 256),
		clients: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	for {
		var frame StreamFrame
		select {
		case frame = <-h.frames:
		case <-heartbeat.C:
			frame = StreamFrame{Kind: "heartbeat"}
		}
		frame.SentAt = time.Now().UTC()
		payload, err := json.Marshal(frame)
		if err != nil {
			log.Printf("Failed to encode %s frame: %v", frame.Kind, err)
			continue
		}
		h.push(payload)
	}
}

func (h *Hub) push(payload []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		// Set write deadline to prevent blocked clients from hanging the hub
		_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err := client.WriteMessage(websocket.TextMessage, payload)
		if err != nil {
			log.Printf("Websocket write error: %v", err)
			client.Close()
			delete(h.clients, client)
		}
	}
}

// PublishAlert queues one screening alert for every connected subscriber.
func (h *Hub) PublishAlert(a alerts.Alert) {
	h.frames <- StreamFrame{Kind: "alert", Alert: &a}
}

// Subscribe handles incoming websocket connections
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	log.Printf("New WebSocket client connected. Total clients: %d", len(h.clients))

	// Keep alive loop (we only push down, but we must read to handle disconnects)
	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
			log.Printf("WebSocket client disconnected. Total clients: %d", len(h.clients))
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				break
			}
		}
	}()
}
