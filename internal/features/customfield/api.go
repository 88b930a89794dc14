package customfield

import (
	"go-reporting/internal/config"
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CustomFieldApi struct {
	controller *CustomFieldController
	config     *config.Config
}

func NewCustomFieldApi(controller *CustomFieldController, config *config.Config) *CustomFieldApi {
	return &CustomFieldApi{
		controller: controller,
		config:     config,
	}
}

func (h *CustomFieldApi) Setup(app *fiber.App) {
	fields := app.Group("/api/custom-fields", middleware.AuthMiddleware(h.config.SkipAuth))

	fields.Post("/", h.controller.Create)
	fields.Get("/", h.controller.List)
	fields.Get("/:id", h.controller.Get)
	fields.Put("/:id", h.controller.Update)
	fields.Delete("/:id", h.controller.Delete)
}
