package catalog

import (
	"strings"

	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	Service CatalogService
}

func NewCatalogController(service CatalogService) *CatalogController {
	return &CatalogController{Service: service}
}

// ResolveFields godoc
func (ctrl *CatalogController) ResolveFields(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var selection []string
	if raw := c.Query("selection"); raw != "" {
		selection = strings.Split(raw, ",")
	}

	fields, err := ctrl.Service.ResolveFields(c.Context(), orgID, c.Params("objectType"), selection)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fields)
}
