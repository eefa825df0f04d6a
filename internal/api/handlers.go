package api

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/hassaneGuedad/diagrammer/internal/analyzer"
	"github.com/hassaneGuedad/diagrammer/internal/config"
	"github.com/hassaneGuedad/diagrammer/internal/db"
	"github.com/hassaneGuedad/diagrammer/internal/generator"
	"github.com/hassaneGuedad/diagrammer/internal/git"
	"github.com/hassaneGuedad/diagrammer/internal/models"
)

// DiagramStore persists generated diagrams. It is optional: without one the
// storage endpoints answer 503.
type DiagramStore interface {
	SaveDiagram(ctx context.Context, rec *models.DiagramRecord, model *models.DiagramModel) (*models.DiagramRecord, error)
	GetDiagram(ctx context.Context, id string) (*models.DiagramRecord, error)
	ListDiagrams(ctx context.Context, limit int) ([]*models.DiagramRecord, error)
	DeleteDiagram(ctx context.Context, id string) error
	LoadModel(ctx context.Context, id string) (*models.DiagramModel, error)
}

type repoFetcher interface {
	Fetch(ctx context.Context, url, branch string) (*git.Checkout, error)
}

type sourceLoader interface {
	LoadDirectory(ctx context.Context, dir string) ([]models.SourceFile, error)
}

type Handler struct {
	cfg       *config.Config
	generator *generator.Generator
	store     DiagramStore
	fetcher   repoFetcher
	loader    sourceLoader
}

func NewHandler(cfg *config.Config, gen *generator.Generator, store DiagramStore) *Handler {
	return &Handler{
		cfg:       cfg,
		generator: gen,
		store:     store,
		fetcher:   git.NewGitService(cfg.ReposPath),
		loader:    analyzer.NewLoader(cfg.LoaderConcurrency),
	}
}

type GenerateRequest struct {
	Files       []models.SourceFile `json:"files"`
	DiagramType string              `json:"diagramType"`
	Save        bool                `json:"save"`
}

type RepositoryRequest struct {
	URL         string `json:"url"`
	Branch      string `json:"branch"`
	DiagramType string `json:"diagramType"`
	Save        bool   `json:"save"`
}

type GenerateResponse struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source,omitempty"`
	*models.DiagramResult
}

var errStoreDisabled = errors.New("diagram storage is not configured")

// Health reports liveness and whether persistence is wired.
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"service":     "diagrammer",
		"persistence": h.store != nil,
	})
}

// ListDiagramTypes returns the recognised selectors with their labels
func (h *Handler) ListDiagramTypes(c fiber.Ctx) error {
	types := make([]fiber.Map, 0, len(models.DiagramTypes))
	for _, t := range models.DiagramTypes {
		types = append(types, fiber.Map{"type": t, "label": t.Label()})
	}
	return c.JSON(types)
}

// GenerateDiagram analyses the posted files and renders the requested diagram
func (h *Handler) GenerateDiagram(c fiber.Ctx) error {
	var input GenerateRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.generator.Generate(input.Files, input.DiagramType)
	if err != nil {
		return h.errorResponse(c, err)
	}

	resp := &GenerateResponse{DiagramResult: result}
	if err := h.maybeSave(c.Context(), input.Save, resp, len(input.Files)); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(resp)
}

// GenerateFromRepository clones a git repository and diagrams its sources
func (h *Handler) GenerateFromRepository(c fiber.Ctx) error {
	var input RepositoryRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.URL == "" {
		return c.Status(400).JSON(fiber.Map{"error": "url is required"})
	}
	if _, err := models.ParseDiagramType(input.DiagramType); err != nil {
		return h.errorResponse(c, err)
	}
	if input.Save && h.store == nil {
		return h.errorResponse(c, errStoreDisabled)
	}

	checkout, err := h.fetcher.Fetch(c.Context(), input.URL, input.Branch)
	if err != nil {
		if errors.Is(err, git.ErrInvalidURL) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("Failed to fetch %s: %v", input.URL, err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to fetch repository: " + err.Error()})
	}

	files, err := h.loader.LoadDirectory(c.Context(), checkout.Path)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if files == nil {
		files = []models.SourceFile{}
	}
	log.Printf("Loaded %d source files from %s", len(files), checkout.Source())

	result, err := h.generator.Generate(files, input.DiagramType)
	if err != nil {
		return h.errorResponse(c, err)
	}

	resp := &GenerateResponse{Source: checkout.Source(), DiagramResult: result}
	if err := h.maybeSave(c.Context(), input.Save, resp, len(files)); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(resp)
}

// maybeSave stores the result when the caller asked for it or the server
// persists every diagram. An explicit request without a store is an error.
func (h *Handler) maybeSave(ctx context.Context, requested bool, resp *GenerateResponse, fileCount int) error {
	if !requested && !h.cfg.PersistDiagrams {
		return nil
	}
	if h.store == nil {
		if requested {
			return errStoreDisabled
		}
		return nil
	}

	rec, err := h.store.SaveDiagram(ctx, &models.DiagramRecord{
		Type:      resp.Type,
		Label:     resp.Label,
		Diagram:   resp.Diagram,
		Stats:     resp.Stats,
		FileCount: fileCount,
		Source:    resp.Source,
	}, resp.Model)
	if err != nil {
		return err
	}
	resp.ID = rec.ID
	return nil
}

// ListDiagrams returns stored diagrams, newest first
func (h *Handler) ListDiagrams(c fiber.Ctx) error {
	if h.store == nil {
		return h.errorResponse(c, errStoreDisabled)
	}

	limit := fiber.Query[int](c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	diagrams, err := h.store.ListDiagrams(c.Context(), limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	if diagrams == nil {
		diagrams = []*models.DiagramRecord{}
	}
	return c.JSON(diagrams)
}

// GetDiagram returns a single stored diagram
func (h *Handler) GetDiagram(c fiber.Ctx) error {
	if h.store == nil {
		return h.errorResponse(c, errStoreDisabled)
	}

	rec, err := h.store.GetDiagram(c.Context(), c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(rec)
}

// DeleteDiagram removes a stored diagram and its model
func (h *Handler) DeleteDiagram(c fiber.Ctx) error {
	if h.store == nil {
		return h.errorResponse(c, errStoreDisabled)
	}

	if err := h.store.DeleteDiagram(c.Context(), c.Params("id")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.SendStatus(204)
}

// RenderDiagram re-renders the stored model of a diagram, by default as its
// original type
func (h *Handler) RenderDiagram(c fiber.Ctx) error {
	if h.store == nil {
		return h.errorResponse(c, errStoreDisabled)
	}

	id := c.Params("id")
	rec, err := h.store.GetDiagram(c.Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}

	t, err := models.ParseDiagramType(c.Query("type", string(rec.Type)))
	if err != nil {
		return h.errorResponse(c, err)
	}

	model, err := h.store.LoadModel(c.Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(&GenerateResponse{ID: id, Source: rec.Source, DiagramResult: h.generator.Render(model, t)})
}

// errorResponse maps domain errors to status codes.
func (h *Handler) errorResponse(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownDiagramType):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, generator.ErrNoFiles):
		return c.Status(400).JSON(fiber.Map{"error": "files is required"})
	case errors.Is(err, db.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "diagram not found"})
	case errors.Is(err, errStoreDisabled):
		return c.Status(503).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("Request failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
}
