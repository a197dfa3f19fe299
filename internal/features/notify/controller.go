package notify

import (
	"github.com/gofiber/contrib/websocket"
)

type NotifyController struct {
	Hub *Hub
}

func NewNotifyController(hub *Hub) *NotifyController {
	return &NotifyController{
		Hub: hub,
	}
}

// HandleWebSocket keeps the connection subscribed to a session until the
// client goes away. Inbound messages are ignored; the socket is push-only.
func (h *NotifyController) HandleWebSocket(c *websocket.Conn) {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		c.Close()
		return
	}

	h.Hub.Subscribe(sessionID, c)
	defer h.Hub.Unsubscribe(sessionID, c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
