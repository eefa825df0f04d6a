package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/hassaneGuedad/diagrammer/internal/config"
	"github.com/hassaneGuedad/diagrammer/internal/db"
	"github.com/hassaneGuedad/diagrammer/internal/generator"
	"github.com/hassaneGuedad/diagrammer/internal/git"
	"github.com/hassaneGuedad/diagrammer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory DiagramStore.
type memoryStore struct {
	records map[string]*models.DiagramRecord
	models  map[string]*models.DiagramModel
	order   []string
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: map[string]*models.DiagramRecord{},
		models:  map[string]*models.DiagramModel{},
	}
}

func (s *memoryStore) SaveDiagram(_ context.Context, rec *models.DiagramRecord, model *models.DiagramModel) (*models.DiagramRecord, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	rec.ID = fmt.Sprintf("d%d", len(s.order)+1)
	rec.CreatedAt = time.Now().UTC()
	s.records[rec.ID] = rec
	s.models[rec.ID] = model
	s.order = append(s.order, rec.ID)
	return rec, nil
}

func (s *memoryStore) GetDiagram(_ context.Context, id string) (*models.DiagramRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) ListDiagrams(_ context.Context, limit int) ([]*models.DiagramRecord, error) {
	var out []*models.DiagramRecord
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		if rec, ok := s.records[s.order[i]]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memoryStore) DeleteDiagram(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.records, id)
	delete(s.models, id)
	return nil
}

func (s *memoryStore) LoadModel(_ context.Context, id string) (*models.DiagramModel, error) {
	m, ok := s.models[id]
	if !ok {
		return nil, fmt.Errorf("failed to load model: %w", db.ErrNotFound)
	}
	return m, nil
}

// stubFetcher serves a fixed local directory as the checkout.
type stubFetcher struct {
	dir string
	err error
}

func (f *stubFetcher) Fetch(_ context.Context, url, _ string) (*git.Checkout, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &git.Checkout{URL: url, Path: f.dir, Commit: "abc123"}, nil
}

const userSource = `public class User extends Person implements Serializable {
    private String name;
    public String getName() {
        return name;
    }
}
`

func setupTestApp(t *testing.T, store DiagramStore) (*fiber.App, *Handler) {
	t.Helper()

	gen, err := generator.NewGenerator(16)
	require.NoError(t, err)

	cfg := &config.Config{ReposPath: t.TempDir(), LoaderConcurrency: 2}
	h := NewHandler(cfg, gen, store)

	app := fiber.New()
	SetupRoutes(app, h)
	return app, h
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestHealth(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, body := doJSON(t, app, "GET", "/health", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["persistence"])
}

func TestListDiagramTypes(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/diagram-types", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var types []map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&types))
	require.Len(t, types, 5)
	assert.Equal(t, "class", types[0]["type"])
	assert.Equal(t, "Entity-Relationship Diagram", types[4]["label"])
}

func TestGenerateDiagram(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, body := doJSON(t, app, "POST", "/api/diagrams/generate", GenerateRequest{
		Files:       []models.SourceFile{{Name: "User.java", Content: userSource}},
		DiagramType: "class",
	})
	require.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, "class", body["type"])
	assert.Equal(t, "Class Diagram", body["label"])
	assert.Contains(t, body["diagram"], "User --|> Person")
	assert.NotContains(t, body, "id")

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["classes"])
	assert.Equal(t, float64(2), stats["relationships"])
	assert.Equal(t, float64(0), stats["functions"])

	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, []any{}, analysis["functions"])
	assert.Len(t, analysis["classes"], 1)
}

func TestGenerateDiagramEmptyFiles(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, body := doJSON(t, app, "POST", "/api/diagrams/generate", GenerateRequest{
		Files:       []models.SourceFile{},
		DiagramType: "er",
	})
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body["diagram"], "erDiagram")
}

func TestGenerateDiagramBadRequests(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	tests := []struct {
		name string
		body any
	}{
		{"unknown type", GenerateRequest{Files: []models.SourceFile{}, DiagramType: "uml"}},
		{"missing type", GenerateRequest{Files: []models.SourceFile{}}},
		{"missing files", map[string]any{"diagramType": "class"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/api/diagrams/generate", tt.body)
			assert.Equal(t, 400, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/diagrams/generate", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestGenerateDiagramSave(t *testing.T) {
	t.Run("without store", func(t *testing.T) {
		app, _ := setupTestApp(t, nil)
		resp, _ := doJSON(t, app, "POST", "/api/diagrams/generate", GenerateRequest{
			Files: []models.SourceFile{}, DiagramType: "class", Save: true,
		})
		assert.Equal(t, 503, resp.StatusCode)
	})

	t.Run("with store", func(t *testing.T) {
		store := newMemoryStore()
		app, _ := setupTestApp(t, store)

		resp, body := doJSON(t, app, "POST", "/api/diagrams/generate", GenerateRequest{
			Files:       []models.SourceFile{{Name: "User.java", Content: userSource}},
			DiagramType: "class",
			Save:        true,
		})
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "d1", body["id"])
		require.Contains(t, store.records, "d1")
		assert.Equal(t, 1, store.records["d1"].FileCount)
		assert.Len(t, store.models["d1"].Classes, 1)
	})

	t.Run("persist all", func(t *testing.T) {
		store := newMemoryStore()
		app, h := setupTestApp(t, store)
		h.cfg.PersistDiagrams = true

		resp, body := doJSON(t, app, "POST", "/api/diagrams/generate", GenerateRequest{
			Files: []models.SourceFile{}, DiagramType: "sequence",
		})
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "d1", body["id"])
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemoryStore()
		store.saveErr = errors.New("neo4j unavailable")
		app, _ := setupTestApp(t, store)

		resp, _ := doJSON(t, app, "POST", "/api/diagrams/generate", GenerateRequest{
			Files: []models.SourceFile{}, DiagramType: "class", Save: true,
		})
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestStoredDiagramEndpoints(t *testing.T) {
	store := newMemoryStore()
	app, _ := setupTestApp(t, store)

	_, created := doJSON(t, app, "POST", "/api/diagrams/generate", GenerateRequest{
		Files:       []models.SourceFile{{Name: "User.java", Content: userSource}},
		DiagramType: "class",
		Save:        true,
	})
	id := created["id"].(string)

	resp, body := doJSON(t, app, "GET", "/api/diagrams/"+id, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "class", body["type"])

	resp, body = doJSON(t, app, "GET", "/api/diagrams/"+id+"/render?type=er", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "er", body["type"])
	assert.Contains(t, body["diagram"], "erDiagram")

	resp, body = doJSON(t, app, "GET", "/api/diagrams/"+id+"/render", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "class", body["type"])

	resp, _ = doJSON(t, app, "GET", "/api/diagrams/"+id+"/render?type=bogus", nil)
	assert.Equal(t, 400, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/diagrams?limit=10", nil)
	listResp, err := app.Test(req)
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	listResp.Body.Close()
	require.Len(t, list, 1)

	resp, _ = doJSON(t, app, "DELETE", "/api/diagrams/"+id, nil)
	assert.Equal(t, 204, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/diagrams/"+id, nil)
	assert.Equal(t, 404, resp.StatusCode)
	resp, _ = doJSON(t, app, "DELETE", "/api/diagrams/"+id, nil)
	assert.Equal(t, 404, resp.StatusCode)
	resp, _ = doJSON(t, app, "GET", "/api/diagrams/"+id+"/render", nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestStoredDiagramEndpointsWithoutStore(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	for _, tt := range []struct{ method, path string }{
		{"GET", "/api/diagrams"},
		{"GET", "/api/diagrams/x"},
		{"DELETE", "/api/diagrams/x"},
		{"GET", "/api/diagrams/x/render"},
	} {
		resp, body := doJSON(t, app, tt.method, tt.path, nil)
		assert.Equal(t, 503, resp.StatusCode, tt.path)
		assert.NotEmpty(t, body["error"])
	}
}

func TestGenerateFromRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "User.java"), []byte(userSource), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "Dep.java"), []byte("public class Dep {}\n"), 0644))

	store := newMemoryStore()
	app, h := setupTestApp(t, store)
	h.fetcher = &stubFetcher{dir: dir}

	resp, body := doJSON(t, app, "POST", "/api/diagrams/repository", RepositoryRequest{
		URL:         "https://github.com/acme/users",
		DiagramType: "class",
		Save:        true,
	})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "https://github.com/acme/users@abc123", body["source"])
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["classes"])

	rec := store.records[body["id"].(string)]
	require.NotNil(t, rec)
	assert.Equal(t, "https://github.com/acme/users@abc123", rec.Source)
	assert.Equal(t, 1, rec.FileCount)
}

func TestGenerateFromRepositoryErrors(t *testing.T) {
	app, h := setupTestApp(t, nil)

	resp, _ := doJSON(t, app, "POST", "/api/diagrams/repository", RepositoryRequest{DiagramType: "class"})
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/diagrams/repository", RepositoryRequest{URL: "https://h/o/r", DiagramType: "nope"})
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/diagrams/repository", RepositoryRequest{URL: "https://h/o/r", DiagramType: "class", Save: true})
	assert.Equal(t, 503, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/diagrams/repository", RepositoryRequest{URL: "--upload-pack=x", DiagramType: "class"})
	assert.Equal(t, 400, resp.StatusCode)

	h.fetcher = &stubFetcher{err: errors.New("git clone failed: exit status 128")}
	resp, body := doJSON(t, app, "POST", "/api/diagrams/repository", RepositoryRequest{URL: "https://h/o/r", DiagramType: "class"})
	assert.Equal(t, 502, resp.StatusCode)
	assert.Contains(t, body["error"], "exit status 128")
}
