package generator

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hassaneGuedad/diagrammer/internal/analyzer"
	"github.com/hassaneGuedad/diagrammer/internal/models"
	"github.com/hassaneGuedad/diagrammer/internal/render"
)

var ErrNoFiles = errors.New("no files provided")

const DefaultCacheSize = 256

// Generator runs analysis and rendering for one request. Results are cached
// by diagram type and input content; cached results are shared and must not
// be mutated by callers.
type Generator struct {
	cache *lru.Cache[string, *models.DiagramResult]
}

func NewGenerator(cacheSize int) (*Generator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *models.DiagramResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Generator{cache: cache}, nil
}

// Generate validates the request, then analyses files and renders the
// selected diagram. An empty non-nil file list is valid and yields the
// renderer's fallback output.
func (g *Generator) Generate(files []models.SourceFile, diagramType string) (*models.DiagramResult, error) {
	t, err := models.ParseDiagramType(diagramType)
	if err != nil {
		return nil, err
	}
	if files == nil {
		return nil, ErrNoFiles
	}

	key := cacheKey(t, files)
	if cached, ok := g.cache.Get(key); ok {
		return cached, nil
	}

	result := g.Render(analyzer.Analyze(files), t)
	g.cache.Add(key, result)
	return result, nil
}

// Render renders an already analysed model.
func (g *Generator) Render(model *models.DiagramModel, t models.DiagramType) *models.DiagramResult {
	if model == nil {
		model = models.NewDiagramModel()
	}
	return &models.DiagramResult{
		Type:    t,
		Label:   t.Label(),
		Diagram: render.Render(t, model),
		Model:   model,
		Stats:   models.StatsFor(model),
	}
}

// CacheLen reports the number of cached results.
func (g *Generator) CacheLen() int {
	return g.cache.Len()
}

// cacheKey identifies a request by diagram type and a sha256 digest over the
// length-prefixed names and contents of all files.
func cacheKey(t models.DiagramType, files []models.SourceFile) string {
	h := sha256.New()
	var size [8]byte
	add := func(s string) {
		binary.BigEndian.PutUint64(size[:], uint64(len(s)))
		h.Write(size[:])
		h.Write([]byte(s))
	}
	for _, f := range files {
		add(f.Name)
		add(f.Content)
	}
	return fmt.Sprintf("%s:%d:%x", t, len(files), h.Sum(nil))
}
