package api

import (
	"net/http"
	"time"

	"game_dashboard/internal/notify"
	"game_dashboard/internal/service"
	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Subscriber interface {
	Subscribe(gameID int64) (<-chan notify.Message, func())
}

type liveRoutes struct {
	games service.GameServiceI
	hub   Subscriber
}

// NewLiveRoutes exposes a websocket that pushes a message whenever state of
// the game changes.
func NewLiveRoutes(handler *gin.RouterGroup, games service.GameServiceI, hub Subscriber) {
	r := &liveRoutes{games: games, hub: hub}

	handler.GET("/games/:id/ws", r.handleWebSocket)
}

func (r *liveRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}
	if _, err := r.games.GetGame(c.Request.Context(), id); err != nil {
		respondError(c, log, err, "get game")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	messages, cancel := r.hub.Subscribe(id)
	done := make(chan struct{})
	go readLoop(conn, done)
	go writeLoop(conn, id, messages, cancel, done)
}

// readLoop discards client frames and closes done once the peer goes away.
func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Logger().Info("websocket unexpected close", zap.Error(err))
			}
			return
		}
	}
}

func writeLoop(conn *websocket.Conn, gameID int64, messages <-chan notify.Message, cancel func(), done <-chan struct{}) {
	log := logger.Logger()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-messages:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			out, err := json.Marshal(msg)
			if err != nil {
				log.Error("failed to marshal message", zap.Error(err))
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				log.Debug("failed to write message", zap.Int64("game_id", gameID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
