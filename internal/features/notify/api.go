package notify

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotifyApi struct {
	notifyController *NotifyController
}

func NewNotifyApi(notifyController *NotifyController) *NotifyApi {
	return &NotifyApi{
		notifyController: notifyController,
	}
}

// Setup registers the push-notification websocket route
func (h *NotifyApi) Setup(app *fiber.App) {
	app.Use("/api/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/api/ws/:sessionId", websocket.New(h.notifyController.HandleWebSocket))
}
