package page

import (
	"errors"

	"go-console/internal/common/models"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PageController struct {
	Service PageService
}

func NewPageController(service PageService) *PageController {
	return &PageController{
		Service: service,
	}
}

// ResolvePage returns the schema that drives the list view for a page.
func (ctrl *PageController) ResolvePage(c *fiber.Ctx) error {
	pageID := c.Params("pageId")

	schema, err := ctrl.Service.Resolve(c.Context(), pageID, rolesFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Page not found",
		})
	}

	return c.JSON(schema)
}

func (ctrl *PageController) CreatePage(c *fiber.Ctx) error {
	var schema models.PageSchema
	if err := c.BodyParser(&schema); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CreatePage(c.Context(), &schema); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(schema)
}

func (ctrl *PageController) ListPages(c *fiber.Ctx) error {
	schemas, err := ctrl.Service.ListPages(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch pages",
		})
	}

	return c.JSON(schemas)
}

func (ctrl *PageController) UpdatePage(c *fiber.Ctx) error {
	pageID := c.Params("pageId")

	var schema models.PageSchema
	if err := c.BodyParser(&schema); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	schema.PageID = pageID

	if err := ctrl.Service.UpdatePage(c.Context(), &schema); err != nil {
		return pageError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Page updated successfully",
	})
}

func (ctrl *PageController) DeletePage(c *fiber.Ctx) error {
	pageID := c.Params("pageId")

	if err := ctrl.Service.DeletePage(c.Context(), pageID); err != nil {
		return pageError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Page deleted successfully",
	})
}

func (ctrl *PageController) AddColumn(c *fiber.Ctx) error {
	return ctrl.gridOp(c, func(pageID string, req GridColumnRequest) (*models.PageSchema, error) {
		return ctrl.Service.AddColumn(c.Context(), pageID, req.Field)
	})
}

func (ctrl *PageController) RemoveColumn(c *fiber.Ctx) error {
	return ctrl.gridOp(c, func(pageID string, req GridColumnRequest) (*models.PageSchema, error) {
		return ctrl.Service.RemoveColumn(c.Context(), pageID, req.Field)
	})
}

func (ctrl *PageController) CopyColumn(c *fiber.Ctx) error {
	return ctrl.gridOp(c, func(pageID string, req GridColumnRequest) (*models.PageSchema, error) {
		return ctrl.Service.CopyColumn(c.Context(), pageID, req.Field)
	})
}

func (ctrl *PageController) MoveColumn(c *fiber.Ctx) error {
	pageID := c.Params("pageId")

	var req MoveColumnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schema, err := ctrl.Service.MoveColumn(c.Context(), pageID, req.Field, req.Dir)
	if err != nil {
		return pageError(c, err)
	}

	return c.JSON(schema)
}

func (ctrl *PageController) gridOp(c *fiber.Ctx, op func(string, GridColumnRequest) (*models.PageSchema, error)) error {
	pageID := c.Params("pageId")

	var req GridColumnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schema, err := op(pageID, req)
	if err != nil {
		return pageError(c, err)
	}

	return c.JSON(schema)
}

func pageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Page not found",
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func rolesFromCtx(c *fiber.Ctx) []string {
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		return claims.Roles
	}
	return nil
}
