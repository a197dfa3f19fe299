package report

import (
	"go-console/internal/features/page"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service     ReportService
	PageService page.PageService
}

func NewReportController(service ReportService, pageService page.PageService) *ReportController {
	return &ReportController{
		Service:     service,
		PageService: pageService,
	}
}

// Generate streams an export of a page operation's result set.
func (ctrl *ReportController) Generate(c *fiber.Ctx) error {
	pageID := c.Params("pageId")
	opName := c.Params("opName")
	format := c.Query("format", FormatXLSX)
	reportName := c.Query("name")

	var roles []string
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		roles = claims.Roles
	}

	schema, err := ctrl.PageService.Resolve(c.Context(), pageID, roles)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Page not found",
		})
	}

	payload := map[string]interface{}{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	file, err := ctrl.Service.Generate(c.Context(), schema, opName, payload, reportName, format)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return c.Send(file.Content)
}
