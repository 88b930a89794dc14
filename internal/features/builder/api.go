package builder

import (
	"go-reporting/internal/config"
	"go-reporting/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type BuilderApi struct {
	controller *BuilderController
	socket     *PreviewSocket
	config     *config.Config
}

func NewBuilderApi(controller *BuilderController, socket *PreviewSocket, config *config.Config) *BuilderApi {
	return &BuilderApi{
		controller: controller,
		socket:     socket,
		config:     config,
	}
}

// Setup registers report builder wizard routes
func (h *BuilderApi) Setup(app *fiber.App) {
	sessions := app.Group("/api/builder/sessions", middleware.AuthMiddleware(h.config.SkipAuth))

	sessions.Post("/", h.controller.Start)
	sessions.Get("/:id", h.controller.Get)
	sessions.Delete("/:id", h.controller.Close)

	sessions.Put("/:id/object", h.controller.SelectObject)
	sessions.Put("/:id/fields", h.controller.SetFields)
	sessions.Put("/:id/filters", h.controller.SetFilters)
	sessions.Put("/:id/charts", h.controller.SetCharts)
	sessions.Put("/:id/sorting", h.controller.SetSorting)
	sessions.Put("/:id/meta", h.controller.SetMeta)

	sessions.Post("/:id/next", h.controller.Next)
	sessions.Post("/:id/back", h.controller.Back)
	sessions.Post("/:id/goto", h.controller.Goto)
	sessions.Post("/:id/save", h.controller.Save)

	// The preview socket upgrades inside an auth-checked route so the
	// handler can trust the org captured at upgrade time.
	ws := app.Group("/api/builder/ws", middleware.AuthMiddleware(h.config.SkipAuth))
	ws.Use(func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		orgID, err := middleware.OrganizationID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals("orgID", orgID)
		return c.Next()
	})
	ws.Get("/:id", websocket.New(h.socket.Handle))
}
