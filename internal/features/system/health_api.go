package system

import (
	"context"
	"time"

	"go-catalog/internal/connectors"

	"github.com/gofiber/fiber/v2"
)

const backendCheckTimeout = 5 * time.Second

type HealthApi struct {
	Backend connectors.Connector
}

func NewHealthApi(backend connectors.Connector) *HealthApi {
	return &HealthApi{Backend: backend}
}

// Setup registers health check routes
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/health/backend", h.BackendCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check if the server is up
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Router       /health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// BackendCheck godoc
// @Summary      Catalog backend check
// @Description  Check that the configured catalog backend (mongo or pos) answers
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health/backend [get]
func (h *HealthApi) BackendCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), backendCheckTimeout)
	defer cancel()

	if err := h.Backend.TestConnection(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"backend": h.Backend.GetType(),
			"status":  "unavailable",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"backend": h.Backend.GetType(), "status": "ok"})
}
