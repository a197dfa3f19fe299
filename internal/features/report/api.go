package report

import (
	"go-console/internal/config"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	reportController *ReportController
	config           *config.Config
}

func NewReportApi(
	reportController *ReportController,
	config *config.Config,
) *ReportApi {
	return &ReportApi{
		reportController: reportController,
		config:           config,
	}
}

// Setup registers all report-related routes
func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth))

	reports.Post("/:pageId/:opName", h.reportController.Generate)
}
