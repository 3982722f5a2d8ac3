package handlers

import (
	"net/http"

	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"github.com/fleetwatch-dev/fleetwatch/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket upgrades an authenticated dashboard connection and hands it to
// the hub. The server only pushes; clients reconnect with backoff on their
// side and receive fresh snapshots, not missed history.
func WebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(uuid.NewString(), Hub, conn, Logger)
	Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
