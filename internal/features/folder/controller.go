package folder

import (
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FolderController struct {
	Service FolderService
}

func NewFolderController(service FolderService) *FolderController {
	return &FolderController{
		Service: service,
	}
}

// CreateFolder godoc
func (ctrl *FolderController) CreateFolder(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var folder Folder
	if err := c.BodyParser(&folder); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CreateFolder(c.Context(), orgID, &folder); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(folder)
}

// ListFolders godoc
func (ctrl *FolderController) ListFolders(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	folders, err := ctrl.Service.ListFolders(c.Context(), orgID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch folders",
		})
	}

	return c.JSON(folders)
}

// GetFolder godoc
func (ctrl *FolderController) GetFolder(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	folder, err := ctrl.Service.GetFolder(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Folder not found"})
	}

	return c.JSON(folder)
}

// UpdateFolder godoc
func (ctrl *FolderController) UpdateFolder(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var folder Folder
	if err := c.BodyParser(&folder); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.UpdateFolder(c.Context(), orgID, c.Params("id"), &folder); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(folder)
}

// DeleteFolder godoc
func (ctrl *FolderController) DeleteFolder(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.DeleteFolder(c.Context(), orgID, c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
