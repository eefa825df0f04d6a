package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/hassaneGuedad/diagrammer/internal/api"
	"github.com/hassaneGuedad/diagrammer/internal/config"
	"github.com/hassaneGuedad/diagrammer/internal/db"
	"github.com/hassaneGuedad/diagrammer/internal/generator"
)

func main() {
	cfg := config.Load()

	gen, err := generator.NewGenerator(cfg.CacheSize)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	var store api.DiagramStore
	if cfg.PersistenceEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := db.NewNeo4jClient(ctx, db.Neo4jConfig{
			URI:      cfg.Neo4jURI,
			Username: cfg.Neo4jUser,
			Password: cfg.Neo4jPass,
			Database: cfg.Neo4jDatabase,
		})
		if err != nil {
			cancel()
			log.Fatalf("Failed to connect to Neo4j: %v", err)
		}
		if err := client.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to prepare Neo4j schema: %v", err)
		}
		cancel()
		defer client.Close()

		store = db.NewStore(client)
		log.Printf("Diagram persistence enabled (%s)", cfg.Neo4jURI)
	} else {
		log.Printf("NEO4J_URI not set, diagram persistence disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:   "Diagrammer API",
		BodyLimit: cfg.BodyLimit,
	})

	api.SetupRoutes(app, api.NewHandler(cfg, gen, store))

	log.Printf("Starting diagrammer on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
