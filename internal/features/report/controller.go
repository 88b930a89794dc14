package report

import (
	"fmt"

	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

// Create godoc
func (ctrl *ReportController) Create(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rpt Report
	if err := c.BodyParser(&rpt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.CreateReport(c.Context(), orgID, &rpt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(rpt)
}

// List godoc
func (ctrl *ReportController) List(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	filter := ListFilter{
		FolderID:      c.Query("folder_id"),
		FavoritesOnly: c.QueryBool("favorites"),
		SharedOnly:    c.QueryBool("shared"),
	}

	reports, err := ctrl.Service.ListReports(c.Context(), orgID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reports"})
	}
	return c.JSON(reports)
}

// Get godoc
func (ctrl *ReportController) Get(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rpt, err := ctrl.Service.GetReport(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	}
	return c.JSON(rpt)
}

// Update godoc
func (ctrl *ReportController) Update(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rpt Report
	if err := c.BodyParser(&rpt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.UpdateReport(c.Context(), orgID, c.Params("id"), &rpt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rpt)
}

// Delete godoc
func (ctrl *ReportController) Delete(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.DeleteReport(c.Context(), orgID, c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type flagBody struct {
	Value bool `json:"value"`
}

// SetFavorite godoc
func (ctrl *ReportController) SetFavorite(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body flagBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.SetFavorite(c.Context(), orgID, c.Params("id"), body.Value); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	}
	return c.JSON(fiber.Map{"is_favorite": body.Value})
}

// SetShared godoc
func (ctrl *ReportController) SetShared(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body flagBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.SetShared(c.Context(), orgID, c.Params("id"), body.Value); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	}
	return c.JSON(fiber.Map{"is_shared": body.Value})
}

// Run godoc
func (ctrl *ReportController) Run(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var opts RunOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	result, err := ctrl.Service.Run(c.Context(), orgID, c.Params("id"), opts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// Export godoc
func (ctrl *ReportController) Export(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var opts RunOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	format := c.Query("format", "csv")
	data, filename, err := ctrl.Service.Export(c.Context(), orgID, c.Params("id"), format, opts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	switch format {
	case "xlsx":
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		c.Set("Content-Type", "text/csv")
	}
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
