package system

import (
	"context"
	"time"

	"go-reporting/internal/common/api"
	"go-reporting/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

type HealthApi struct {
	DB *database.MongodbDB
}

func NewHealthApi(db *database.MongodbDB) api.Route {
	return &HealthApi{DB: db}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		code := fiber.StatusOK
		if err := h.DB.DB.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC(),
		})
	})
}
