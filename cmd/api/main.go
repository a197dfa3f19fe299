package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-console/internal/common/api"
	"go-console/internal/config"
	"go-console/internal/database"
	"go-console/internal/features/action"
	"go-console/internal/features/auth"
	"go-console/internal/features/listview"
	"go-console/internal/features/notify"
	"go-console/internal/features/page"
	"go-console/internal/features/record"
	"go-console/internal/features/report"
	"go-console/internal/features/user"
	"go-console/internal/logger"
	"go-console/internal/middleware"
	"go-console/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CorsMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartSessionJanitor reaps idle list sessions on a fixed schedule.
func StartSessionJanitor(lc fx.Lifecycle, lists listview.ListService, cfg *config.Config, zlog *zap.Logger) {
	c := cron.New()
	_, err := c.AddFunc("@every 5m", func() {
		lists.ReapIdle(cfg.SessionTTL)
	})
	if err != nil {
		zlog.Error("failed to schedule session janitor", zap.Error(err))
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			c.Stop()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			page.NewPageRepository,
			record.NewRecordRepository,
			user.NewUserRepository,

			page.NewPageService,
			record.NewRecordService,
			listview.NewListService,
			report.NewReportService,
			action.NewActionService,
			user.NewUserService,
			auth.NewAuthService,
			notify.NewHub,

			// Interface adapters
			func(s record.RecordService) record.PageAPI { return s },
			func(h *notify.Hub) notify.Notifier { return h },

			page.NewPageController,
			record.NewRecordController,
			listview.NewListController,
			report.NewReportController,
			action.NewActionController,
			user.NewUserController,
			auth.NewAuthController,
			notify.NewNotifyController,

			AsRoute(page.NewPageApi),
			AsRoute(record.NewRecordApi),
			AsRoute(listview.NewListApi),
			AsRoute(report.NewReportApi),
			AsRoute(action.NewActionApi),
			AsRoute(user.NewUserApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(notify.NewNotifyApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartSessionJanitor,
		),
	)

	app.Run()
}
