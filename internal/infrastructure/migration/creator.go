package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/stockflow/backend/internal/infrastructure/config"
)

// Drivers lists the schema flavours kept under the migrations directory
var Drivers = []string{config.DriverPostgres, config.DriverSQLite}

var (
	upTemplate = template.Must(template.New("up").Parse(`-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}
-- Driver: {{.Driver}}

`))

	downTemplate = template.Must(template.New("down").Parse(`-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}
-- Driver: {{.Driver}}

`))
)

// MigrationFile is one up/down pair for one driver
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Driver      string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair for every driver, all with
// the same version so the schema flavours move together
func CreateMigration(migrationsPath, name, description string) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	now := time.Now().UTC()
	version := now.Format("20060102150405")

	files := make([]MigrationFile, 0, len(Drivers))
	for _, driver := range Drivers {
		dir := SourceDir(migrationsPath, driver)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}

		mf := MigrationFile{
			Version:     version,
			Name:        name,
			Description: description,
			Driver:      driver,
			Timestamp:   now.Format(time.RFC3339),
			UpPath:      filepath.Join(dir, version+"_"+base+".up.sql"),
			DownPath:    filepath.Join(dir, version+"_"+base+".down.sql"),
		}
		if err := writeTemplate(mf.UpPath, upTemplate, mf); err != nil {
			removeAll(files)
			return nil, fmt.Errorf("failed to create up migration: %w", err)
		}
		if err := writeTemplate(mf.DownPath, downTemplate, mf); err != nil {
			_ = os.Remove(mf.UpPath)
			removeAll(files)
			return nil, fmt.Errorf("failed to create down migration: %w", err)
		}
		files = append(files, mf)
	}
	return files, nil
}

func writeTemplate(path string, tmpl *template.Template, data MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

func removeAll(files []MigrationFile) {
	for _, mf := range files {
		_ = os.Remove(mf.UpPath)
		_ = os.Remove(mf.DownPath)
	}
}

// sanitizeName lowercases name and collapses separators into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the base names of the up migrations of driver, sorted
func ListMigrations(migrationsPath, driver string) ([]string, error) {
	entries, err := os.ReadDir(SourceDir(migrationsPath, driver))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}
