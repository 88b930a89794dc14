package record

import (
	"go-reporting/internal/config"
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordApi struct {
	controller *RecordController
	config     *config.Config
}

func NewRecordApi(controller *RecordController, config *config.Config) *RecordApi {
	return &RecordApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers object record routes
func (h *RecordApi) Setup(app *fiber.App) {
	records := app.Group("/api/records/:objectType", middleware.AuthMiddleware(h.config.SkipAuth))

	records.Post("/query", h.controller.QueryRecords)
	records.Post("/", h.controller.CreateRecord)
	records.Get("/:id", h.controller.GetRecord)
	records.Delete("/:id", h.controller.DeleteRecord)
}
