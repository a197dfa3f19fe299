package record

import (
	"go-console/internal/features/page"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordController struct {
	Service     RecordService
	PageService page.PageService
}

func NewRecordController(service RecordService, pageService page.PageService) *RecordController {
	return &RecordController{
		Service:     service,
		PageService: pageService,
	}
}

// CallOperation runs a named page operation with the request body as payload.
func (ctrl *RecordController) CallOperation(c *fiber.Ctx) error {
	pageID := c.Params("pageId")
	opName := c.Params("opName")

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

	result, err := ctrl.Service.Call(c.Context(), schema, opName, payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}
