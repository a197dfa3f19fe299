package record

import (
	"go-console/internal/config"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordApi struct {
	recordController *RecordController
	config           *config.Config
}

func NewRecordApi(
	recordController *RecordController,
	config *config.Config,
) *RecordApi {
	return &RecordApi{
		recordController: recordController,
		config:           config,
	}
}

// Setup registers all record-related routes
func (h *RecordApi) Setup(app *fiber.App) {
	records := app.Group("/api/records", middleware.AuthMiddleware(h.config.SkipAuth))

	records.Post("/:pageId/:opName", h.recordController.CallOperation)
}
