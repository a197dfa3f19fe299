package action

import (
	"go-console/internal/config"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ActionApi struct {
	actionController *ActionController
	config           *config.Config
}

func NewActionApi(
	actionController *ActionController,
	config *config.Config,
) *ActionApi {
	return &ActionApi{
		actionController: actionController,
		config:           config,
	}
}

// Setup registers all action-dispatch routes
func (h *ActionApi) Setup(app *fiber.App) {
	actions := app.Group("/api/actions", middleware.AuthMiddleware(h.config.SkipAuth))

	actions.Post("/:sessionId", h.actionController.Dispatch)
}
