package router

import (
	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

// InstallRouter registers the unauthenticated surface: health and readiness.
// Everything else lives under /api behind the API-key middleware.
func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "voxgate", "status": "ok"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
