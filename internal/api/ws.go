package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Kartik-coder753/prism-disaster-management/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from other origins; access control is out of
	// scope for this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscribe upgrades the connection and registers it with the broadcast
// hub. The handler blocks on the read pump until the peer disconnects.
func (h *Handler) subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := hub.NewWSClient(conn)
	h.hub.Register(client)
	h.metrics.Subscribers.Set(float64(h.hub.SubscriberCount()))
	slog.Info("live subscriber connected", "subscribers", h.hub.SubscriberCount())

	go client.WritePump()
	client.ReadPump()

	h.hub.Unregister(client)
	h.metrics.Subscribers.Set(float64(h.hub.SubscriberCount()))
	slog.Info("live subscriber disconnected", "subscribers", h.hub.SubscriberCount())
}
