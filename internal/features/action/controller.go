package action

import (
	"errors"

	"go-console/internal/features/listview"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ActionController struct {
	Service ActionService
}

func NewActionController(service ActionService) *ActionController {
	return &ActionController{
		Service: service,
	}
}

// Dispatch runs a button press. Download outcomes stream the generated
// file; everything else is JSON.
func (ctrl *ActionController) Dispatch(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var req DispatchRequest
	req.Row = -1
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var roles []string
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		roles = claims.Roles
	}

	result, err := ctrl.Service.Dispatch(c.Context(), sessionID, req, roles)
	if err != nil {
		if errors.Is(err, listview.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if result.Outcome == OutcomeDownload && result.File != nil {
		c.Set(fiber.HeaderContentType, result.File.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.File.Name+`"`)
		return c.Send(result.File.Content)
	}

	return c.JSON(result)
}
