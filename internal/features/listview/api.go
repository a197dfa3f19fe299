package listview

import (
	"go-console/internal/config"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ListApi struct {
	listController *ListController
	config         *config.Config
}

func NewListApi(
	listController *ListController,
	config *config.Config,
) *ListApi {
	return &ListApi{
		listController: listController,
		config:         config,
	}
}

// Setup registers all list-session routes
func (h *ListApi) Setup(app *fiber.App) {
	lists := app.Group("/api/lists", middleware.AuthMiddleware(h.config.SkipAuth))

	lists.Post("/", h.listController.Open)
	lists.Get("/:sessionId", h.listController.Get)
	lists.Delete("/:sessionId", h.listController.Close)

	lists.Post("/:sessionId/filter", h.listController.ApplyFilter)
	lists.Delete("/:sessionId/filter", h.listController.ClearFilter)
	lists.Post("/:sessionId/sort", h.listController.ApplySort)
	lists.Post("/:sessionId/page", h.listController.SetPage)
	lists.Post("/:sessionId/page-size", h.listController.SetPageSize)
	lists.Post("/:sessionId/refetch", h.listController.Refetch)
	lists.Post("/:sessionId/switch", h.listController.SwitchPage)

	lists.Post("/:sessionId/modal", h.listController.OpenModal)
	lists.Delete("/:sessionId/modal", h.listController.CloseModal)

	lists.Post("/:sessionId/toggle", h.listController.ToggleSwitch)
}
