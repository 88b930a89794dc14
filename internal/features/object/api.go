package object

import (
	"go-reporting/internal/config"
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ObjectApi struct {
	objectController *ObjectController
	config           *config.Config
}

func NewObjectApi(objectController *ObjectController, config *config.Config) *ObjectApi {
	return &ObjectApi{
		objectController: objectController,
		config:           config,
	}
}

// Setup registers all object schema routes
func (h *ObjectApi) Setup(app *fiber.App) {
	objects := app.Group("/api/objects", middleware.AuthMiddleware(h.config.SkipAuth))

	objects.Post("/", h.objectController.CreateObject)
	objects.Get("/", h.objectController.ListObjects)
	objects.Get("/:name", h.objectController.GetObject)
	objects.Get("/:name/describe", h.objectController.DescribeObject)
	objects.Put("/:name", h.objectController.UpdateObject)
	objects.Delete("/:name", h.objectController.DeleteObject)
}
