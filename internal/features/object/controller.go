package object

import (
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ObjectController struct {
	Service ObjectService
}

func NewObjectController(service ObjectService) *ObjectController {
	return &ObjectController{
		Service: service,
	}
}

// CreateObject godoc
func (ctrl *ObjectController) CreateObject(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var def ObjectDef
	if err := c.BodyParser(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CreateObject(c.Context(), orgID, &def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(def)
}

// ListObjects godoc
func (ctrl *ObjectController) ListObjects(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	defs, err := ctrl.Service.ListObjects(c.Context(), orgID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch objects",
		})
	}

	return c.JSON(defs)
}

// GetObject godoc
func (ctrl *ObjectController) GetObject(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	def, err := ctrl.Service.GetObjectByName(c.Context(), orgID, c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Object not found"})
	}

	return c.JSON(def)
}

// DescribeObject godoc
func (ctrl *ObjectController) DescribeObject(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fields, err := ctrl.Service.Describe(c.Context(), orgID, c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fields)
}

// UpdateObject godoc
func (ctrl *ObjectController) UpdateObject(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var def ObjectDef
	if err := c.BodyParser(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	def.Name = c.Params("name")

	if err := ctrl.Service.UpdateObject(c.Context(), orgID, &def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(def)
}

// DeleteObject godoc
func (ctrl *ObjectController) DeleteObject(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.DeleteObject(c.Context(), orgID, c.Params("name")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
