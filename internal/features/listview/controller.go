package listview

import (
	"errors"

	"go-console/internal/common/models"
	"go-console/internal/features/page"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ListController struct {
	Service ListService
}

func NewListController(service ListService) *ListController {
	return &ListController{
		Service: service,
	}
}

type openRequest struct {
	PageID string            `json:"pageId"`
	Query  map[string]string `json:"query"`
}

type pageRequest struct {
	Page int64 `json:"page"`
}

type pageSizeRequest struct {
	PageSize int64 `json:"pageSize"`
}

type toggleRequest struct {
	Field   string `json:"field"`
	Row     int    `json:"row"`
	Checked bool   `json:"checked"`
}

func (ctrl *ListController) Open(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.Open(c.Context(), req.PageID, rolesFromCtx(c), req.Query)
	if err != nil {
		return listError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

func (ctrl *ListController) Get(c *fiber.Ctx) error {
	view, err := ctrl.Service.Get(c.Params("sessionId"))
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) Close(c *fiber.Ctx) error {
	if err := ctrl.Service.Close(c.Params("sessionId")); err != nil {
		return listError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Session closed",
	})
}

func (ctrl *ListController) ApplyFilter(c *fiber.Ctx) error {
	var entry models.FilterEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.ApplyFilter(c.Context(), c.Params("sessionId"), entry)
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) ClearFilter(c *fiber.Ctx) error {
	view, err := ctrl.Service.ClearFilter(c.Context(), c.Params("sessionId"))
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) ApplySort(c *fiber.Ctx) error {
	var entry models.SortEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.ApplySort(c.Context(), c.Params("sessionId"), entry)
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) SetPage(c *fiber.Ctx) error {
	var req pageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.SetPage(c.Context(), c.Params("sessionId"), req.Page)
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) SetPageSize(c *fiber.Ctx) error {
	var req pageSizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.SetPageSize(c.Context(), c.Params("sessionId"), req.PageSize)
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) Refetch(c *fiber.Ctx) error {
	view, err := ctrl.Service.Refetch(c.Context(), c.Params("sessionId"))
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) SwitchPage(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.SwitchPage(c.Context(), c.Params("sessionId"), req.PageID, rolesFromCtx(c), req.Query)
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) OpenModal(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.OpenModal(c.Context(), c.Params("sessionId"), req.PageID, rolesFromCtx(c), req.Query)
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) CloseModal(c *fiber.Ctx) error {
	view, err := ctrl.Service.CloseModal(c.Context(), c.Params("sessionId"))
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func (ctrl *ListController) ToggleSwitch(c *fiber.Ctx) error {
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := ctrl.Service.ToggleSwitch(c.Context(), c.Params("sessionId"), req.Field, req.Row, req.Checked)
	if err != nil {
		return listError(c, err)
	}
	return c.JSON(view)
}

func listError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	case errors.Is(err, page.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Page not found",
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func rolesFromCtx(c *fiber.Ctx) []string {
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		return claims.Roles
	}
	return nil
}
