package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-reporting/internal/common/api"
	"go-reporting/internal/config"
	"go-reporting/internal/database"
	"go-reporting/internal/features/audit"
	"go-reporting/internal/features/builder"
	"go-reporting/internal/features/catalog"
	"go-reporting/internal/features/customfield"
	"go-reporting/internal/features/folder"
	"go-reporting/internal/features/object"
	"go-reporting/internal/features/record"
	"go-reporting/internal/features/report"
	"go-reporting/internal/features/system"
	"go-reporting/internal/logger"
	"go-reporting/internal/middleware"
	"go-reporting/pkg/utils"

	_ "go-reporting/docs" // swagger docs

	"github.com/gofiber/fiber/v2"
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

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the "routes" group and calls Setup on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine and shuts it down on exit.
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

// @title           Reporting Service API
// @version         1.0
// @description     Report builder, viewer and definition store.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			audit.NewAuditRepository,
			object.NewObjectRepository,
			customfield.NewCustomFieldRepository,
			record.NewRecordRepository,
			report.NewReportRepository,
			folder.NewFolderRepository,

			audit.NewAuditService,
			object.NewObjectService,
			customfield.NewCustomFieldService,
			catalog.NewCatalogService,
			record.NewRecordService,
			report.NewReportService,
			folder.NewFolderService,
			builder.NewSessionManager,
			builder.NewBuilderService,
			builder.NewSweeper,

			audit.NewAuditController,
			object.NewObjectController,
			customfield.NewCustomFieldController,
			catalog.NewCatalogController,
			record.NewRecordController,
			report.NewReportController,
			folder.NewFolderController,
			builder.NewBuilderController,
			builder.NewPreviewSocket,

			AsRoute(audit.NewAuditApi),
			AsRoute(object.NewObjectApi),
			AsRoute(customfield.NewCustomFieldApi),
			AsRoute(catalog.NewCatalogApi),
			AsRoute(record.NewRecordApi),
			AsRoute(report.NewReportApi),
			AsRoute(folder.NewFolderApi),
			AsRoute(builder.NewBuilderApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
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
			func(lc fx.Lifecycle, sweeper *builder.Sweeper) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return sweeper.Start()
					},
					OnStop: func(ctx context.Context) error {
						sweeper.Stop()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
