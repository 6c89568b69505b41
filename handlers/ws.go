package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/fingestao/fingestao-api/utils"
)

// WSHandler pushes refresh signals to a user's open dashboards whenever
// their ledger changes, so clients refetch instead of polling.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024

	// Keep-alive tuning for cloud hosting that kills idle connections
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Dashboard stream closed for user: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request to a per-user event stream. Browsers cannot
// set headers on WebSocket upgrades, so the access token travels in the
// query string.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID, err := utils.ParseToken(c.Query("token"), utils.TokenTypeAccess)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
		return
	}

	err = h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{"user_id": userID})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// Notify broadcasts an event to every open session of one user. Safe to
// call on a nil handler so tests can build handlers without a hub.
func (h *WSHandler) Notify(userID, event string) {
	if h == nil || h.M == nil {
		return
	}

	msg := []byte(`{"type": "` + event + `"}`)
	err := h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting to user %s: %v", userID, err)
	}
}
