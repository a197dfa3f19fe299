package page

import (
	"go-console/internal/config"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PageApi struct {
	pageController *PageController
	config         *config.Config
}

func NewPageApi(
	pageController *PageController,
	config *config.Config,
) *PageApi {
	return &PageApi{
		pageController: pageController,
		config:         config,
	}
}

// Setup registers all page-related routes
func (h *PageApi) Setup(app *fiber.App) {
	pages := app.Group("/api/pages", middleware.AuthMiddleware(h.config.SkipAuth))

	pages.Get("/", h.pageController.ListPages)
	pages.Post("/", h.pageController.CreatePage)
	pages.Get("/:pageId", h.pageController.ResolvePage)
	pages.Put("/:pageId", h.pageController.UpdatePage)
	pages.Delete("/:pageId", h.pageController.DeletePage)

	// Grid editor operations
	pages.Post("/:pageId/grid/add", h.pageController.AddColumn)
	pages.Post("/:pageId/grid/remove", h.pageController.RemoveColumn)
	pages.Post("/:pageId/grid/move", h.pageController.MoveColumn)
	pages.Post("/:pageId/grid/copy", h.pageController.CopyColumn)
}
