package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var migrationName = regexp.MustCompile(`^[a-z0-9_]+$`)

// Generator writes empty migration scripts into the source tree.
type Generator struct {
	dir string
	now func() time.Time
}

// NewGenerator targets dir, normally internal/infrastructure/migration/scripts.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir, now: time.Now}
}

// Create writes a goose script for postgres and an up/down pair for mysql,
// all sharing one timestamp version, and returns the created paths.
func (g *Generator) Create(name string) ([]string, error) {
	if !migrationName.MatchString(name) {
		return nil, fmt.Errorf("migration name must match %s", migrationName)
	}
	version := g.now().UTC().Format("20060102150405")
	created := g.now().UTC().Format(time.RFC3339)

	files := map[string]string{
		filepath.Join(g.dir, "postgres", version+"_"+name+".sql"): fmt.Sprintf(
			"-- %s (%s)\n\n-- +goose Up\n\n-- +goose Down\n", name, created),
		filepath.Join(g.dir, "mysql", version+"_"+name+".up.sql"): fmt.Sprintf(
			"-- %s (%s)\n", name, created),
		filepath.Join(g.dir, "mysql", version+"_"+name+".down.sql"): fmt.Sprintf(
			"-- rollback %s (%s)\n", name, created),
	}

	paths := make([]string, 0, len(files))
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create scripts directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
