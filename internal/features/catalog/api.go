package catalog

import (
	"go-reporting/internal/config"
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CatalogApi struct {
	controller *CatalogController
	config     *config.Config
}

func NewCatalogApi(controller *CatalogController, config *config.Config) *CatalogApi {
	return &CatalogApi{
		controller: controller,
		config:     config,
	}
}

func (h *CatalogApi) Setup(app *fiber.App) {
	catalog := app.Group("/api/catalog", middleware.AuthMiddleware(h.config.SkipAuth))

	catalog.Get("/:objectType", h.controller.ResolveFields)
}
