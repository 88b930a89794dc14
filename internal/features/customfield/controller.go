package customfield

import (
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CustomFieldController struct {
	Service CustomFieldService
}

func NewCustomFieldController(service CustomFieldService) *CustomFieldController {
	return &CustomFieldController{Service: service}
}

// Create godoc
func (ctrl *CustomFieldController) Create(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var field CustomField
	if err := c.BodyParser(&field); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.CreateField(c.Context(), orgID, &field); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(field)
}

// List godoc
func (ctrl *CustomFieldController) List(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	objectType := c.Query("object_type")
	if objectType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object_type query parameter is required"})
	}

	var fields []CustomField
	if c.Query("status") == "active" {
		fields, err = ctrl.Service.ListActiveFields(c.Context(), orgID, objectType)
	} else {
		fields, err = ctrl.Service.ListFields(c.Context(), orgID, objectType)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fields)
}

// Get godoc
func (ctrl *CustomFieldController) Get(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	field, err := ctrl.Service.GetField(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Field not found"})
	}

	return c.JSON(field)
}

// Update godoc
func (ctrl *CustomFieldController) Update(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var field CustomField
	if err := c.BodyParser(&field); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.UpdateField(c.Context(), orgID, c.Params("id"), &field); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(field)
}

// Delete godoc
func (ctrl *CustomFieldController) Delete(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.DeleteField(c.Context(), orgID, c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
