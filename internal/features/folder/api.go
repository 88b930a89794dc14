package folder

import (
	"go-reporting/internal/config"
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FolderApi struct {
	controller *FolderController
	config     *config.Config
}

func NewFolderApi(controller *FolderController, config *config.Config) *FolderApi {
	return &FolderApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers report folder routes
func (h *FolderApi) Setup(app *fiber.App) {
	folders := app.Group("/api/folders", middleware.AuthMiddleware(h.config.SkipAuth))

	folders.Post("/", h.controller.CreateFolder)
	folders.Get("/", h.controller.ListFolders)
	folders.Get("/:id", h.controller.GetFolder)
	folders.Put("/:id", h.controller.UpdateFolder)
	folders.Delete("/:id", h.controller.DeleteFolder)
}
