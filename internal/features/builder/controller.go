package builder

import (
	"errors"

	"go-reporting/internal/common/models"
	"go-reporting/internal/features/chart"
	"go-reporting/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BuilderController struct {
	Service BuilderService
}

func NewBuilderController(service BuilderService) *BuilderController {
	return &BuilderController{Service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrStepIncomplete), errors.Is(err, ErrStepUnreachable),
		errors.Is(err, ErrObjectFixed), errors.Is(err, ErrNotAtPreview):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// Start godoc
func (ctrl *BuilderController) Start(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		ReportID string `json:"report_id"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	view, err := ctrl.Service.StartSession(c.Context(), orgID, body.ReportID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// Get godoc
func (ctrl *BuilderController) Get(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	view, err := ctrl.Service.GetSession(orgID, c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// Close godoc
func (ctrl *BuilderController) Close(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.CloseSession(orgID, c.Params("id")); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SelectObject godoc
func (ctrl *BuilderController) SelectObject(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		ObjectType string `json:"object_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	view, err := ctrl.Service.SelectObject(c.Context(), orgID, c.Params("id"), body.ObjectType)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// SetFields godoc
func (ctrl *BuilderController) SetFields(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		Fields []string `json:"fields"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	view, err := ctrl.Service.SetFields(orgID, c.Params("id"), body.Fields)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// SetFilters godoc
func (ctrl *BuilderController) SetFilters(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		Filters []models.FilterPredicate `json:"filters"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	view, err := ctrl.Service.SetFilters(orgID, c.Params("id"), body.Filters)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// SetCharts godoc
func (ctrl *BuilderController) SetCharts(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		Charts []chart.ChartSpec `json:"charts"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	view, err := ctrl.Service.SetCharts(orgID, c.Params("id"), body.Charts)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// SetSorting godoc
func (ctrl *BuilderController) SetSorting(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		Sorting []models.SortSpec `json:"sorting"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	view, err := ctrl.Service.SetSorting(orgID, c.Params("id"), body.Sorting)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// SetMeta godoc
func (ctrl *BuilderController) SetMeta(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		FolderID    *string `json:"folder_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var folderID *primitive.ObjectID
	if body.FolderID != nil {
		oid, err := primitive.ObjectIDFromHex(*body.FolderID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid folder id"})
		}
		folderID = &oid
	}

	view, err := ctrl.Service.SetMeta(orgID, c.Params("id"), body.Name, body.Description, folderID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// Next godoc
func (ctrl *BuilderController) Next(c *fiber.Ctx) error {
	return ctrl.navigate(c, "next")
}

// Back godoc
func (ctrl *BuilderController) Back(c *fiber.Ctx) error {
	return ctrl.navigate(c, "back")
}

// Goto godoc
func (ctrl *BuilderController) Goto(c *fiber.Ctx) error {
	return ctrl.navigate(c, "goto")
}

func (ctrl *BuilderController) navigate(c *fiber.Ctx, direction string) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id := c.Params("id")
	var view View
	switch direction {
	case "next":
		view, err = ctrl.Service.Next(orgID, id)
	case "back":
		view, err = ctrl.Service.Back(orgID, id)
	default:
		var body struct {
			Step string `json:"step"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		view, err = ctrl.Service.Goto(orgID, id, body.Step)
	}
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "session": view})
	}
	return c.JSON(view)
}

// Save godoc
func (ctrl *BuilderController) Save(c *fiber.Ctx) error {
	orgID, err := middleware.OrganizationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rpt, err := ctrl.Service.Save(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rpt)
}
