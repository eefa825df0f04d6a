package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hassaneGuedad/diagrammer/internal/models"
	"github.com/sourcegraph/conc/pool"
)

// MaxFileSize bounds the size of a single loaded source file.
const MaxFileSize = 1 << 20

// skipDirs contains directory names that are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
}

type Loader struct {
	concurrency int
}

func NewLoader(concurrency int) *Loader {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Loader{concurrency: concurrency}
}

// LoadDirectory reads every supported source file under dirPath. Names are
// slash-separated paths relative to dirPath, in walk order.
func (l *Loader) LoadDirectory(ctx context.Context, dirPath string) ([]models.SourceFile, error) {
	var paths []string
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dirPath && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if models.DetectLanguage(path) == "" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > MaxFileSize {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	files, err := l.readAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	for i, path := range paths {
		rel, err := filepath.Rel(dirPath, path)
		if err != nil {
			rel = path
		}
		files[i].Name = filepath.ToSlash(rel)
	}
	return files, nil
}

// LoadPaths loads a mix of files and directories. Explicit files are read
// regardless of extension.
func (l *Loader) LoadPaths(ctx context.Context, paths []string) ([]models.SourceFile, error) {
	var files []models.SourceFile
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			loaded, err := l.LoadDirectory(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
			files = append(files, loaded...)
			continue
		}
		read, err := l.readAll(ctx, []string{path})
		if err != nil {
			return nil, err
		}
		read[0].Name = filepath.ToSlash(path)
		files = append(files, read[0])
	}
	return files, nil
}

// readAll reads paths with bounded concurrency. Results keep input order.
func (l *Loader) readAll(ctx context.Context, paths []string) ([]models.SourceFile, error) {
	files := make([]models.SourceFile, len(paths))

	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(l.concurrency)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", path, err)
			}
			files[i] = models.SourceFile{Name: path, Content: string(content)}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
