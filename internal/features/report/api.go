package report

import (
	"go-reporting/internal/config"
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
}

func NewReportApi(controller *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers report definition and viewer routes
func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth))

	reports.Post("/", h.controller.Create)
	reports.Get("/", h.controller.List)
	reports.Get("/:id", h.controller.Get)
	reports.Put("/:id", h.controller.Update)
	reports.Delete("/:id", h.controller.Delete)

	reports.Put("/:id/favorite", h.controller.SetFavorite)
	reports.Put("/:id/share", h.controller.SetShared)

	reports.Post("/:id/run", h.controller.Run)
	reports.Post("/:id/export", h.controller.Export)
}
