package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"motri-backend/shared/config"
	"motri-backend/shared/database/models"
	utils "motri-backend/shared/utils/auth"
)

// Feed event types pushed to connected director dashboards.
const (
	FeedEventReportCreated = "report.created"
	FeedEventReportDeleted = "report.deleted"
)

// FeedEvent is a single dashboard notification.
type FeedEvent struct {
	Type      string         `json:"type"`
	Report    *models.Report `json:"report,omitempty"`
	ReportID  string         `json:"report_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ReportFeed pushes report lifecycle events to director dashboards over
// WebSocket. One connection per director; a newer connection replaces the
// older one.
type ReportFeed struct {
	clients   map[string]*websocket.Conn // directorID -> connection
	mutex     sync.RWMutex
	upgrader  websocket.Upgrader
	broadcast chan *FeedEvent
}

// NewReportFeed builds the feed and starts its event loop.
func NewReportFeed(cfg *config.Config) *ReportFeed {
	feed := &ReportFeed{
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range cfg.CORSOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
				return false
			},
		},
		broadcast: make(chan *FeedEvent, 256),
	}

	go feed.run()

	return feed
}

func (f *ReportFeed) run() {
	for event := range f.broadcast {
		f.mutex.RLock()
		for directorID, conn := range f.clients {
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("🔌 Dropping feed client %s: %v", directorID, err)
				conn.Close()
				// Removal happens in the read loop; the write error here
				// just stops further sends on a dead connection.
			}
		}
		f.mutex.RUnlock()
	}
}

// Broadcast queues an event for all connected dashboards. Never blocks the
// request path: events are dropped when the buffer is full.
func (f *ReportFeed) Broadcast(event *FeedEvent) {
	select {
	case f.broadcast <- event:
	default:
		log.Println("⚠️  Feed buffer full, dropping event")
	}
}

// HandleConnection upgrades a dashboard request. The session token is
// carried in the "token" query parameter because browsers cannot set
// headers on WebSocket upgrades.
func (f *ReportFeed) HandleConnection(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token is required"})
		return
	}

	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	f.register(claims.DirectorID, conn)

	// Read loop: the dashboard never sends application data, but reading
	// is required to observe close frames and connection loss.
	go func() {
		defer f.unregister(claims.DirectorID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (f *ReportFeed) register(directorID string, conn *websocket.Conn) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if existing, ok := f.clients[directorID]; ok {
		existing.Close()
	}
	f.clients[directorID] = conn
	log.Printf("🔌 Dashboard connected: %s (total: %d)", directorID, len(f.clients))
}

func (f *ReportFeed) unregister(directorID string, conn *websocket.Conn) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if current, ok := f.clients[directorID]; ok && current == conn {
		delete(f.clients, directorID)
		log.Printf("🔌 Dashboard disconnected: %s (total: %d)", directorID, len(f.clients))
	}
	conn.Close()
}

// ClientCount reports the number of connected dashboards.
func (f *ReportFeed) ClientCount() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return len(f.clients)
}
