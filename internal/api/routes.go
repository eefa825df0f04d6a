package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
)

func SetupRoutes(app *fiber.App, h *Handler) {
	app.Use(recoverer.New())
	app.Use(logger.New())

	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Get("/diagram-types", h.ListDiagramTypes)

	// Diagrams
	diagrams := api.Group("/diagrams")
	diagrams.Post("/generate", h.GenerateDiagram)
	diagrams.Post("/repository", h.GenerateFromRepository)
	diagrams.Get("/", h.ListDiagrams)
	diagrams.Get("/:id", h.GetDiagram)
	diagrams.Delete("/:id", h.DeleteDiagram)
	diagrams.Get("/:id/render", h.RenderDiagram)
}
