package user

import (
	"go-console/internal/config"
	"go-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	userController *UserController
	config         *config.Config
}

func NewUserApi(
	userController *UserController,
	config *config.Config,
) *UserApi {
	return &UserApi{
		userController: userController,
		config:         config,
	}
}

// Setup registers all user-related routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/", h.userController.ListUsers)
	users.Post("/", h.userController.CreateUser)
}
