package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var fileNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredAnnotations = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks the migrations in a directory on disk.
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("migrate: directory is required")
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateFS reports every badly named, duplicated or unannotated .sql file
// under dir, not just the first.
func ValidateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("migrate: read %q: %w", dir, err)
	}
	var problems error
	owners := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		match := fileNameRe.FindStringSubmatch(name)
		if match == nil {
			problems = multierr.Append(problems, fmt.Errorf("%s: name must look like YYYYMMDDHHMMSS_name.sql", name))
			continue
		}
		if first, dup := owners[match[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("%s: version %s already used by %s", name, match[1], first))
			continue
		}
		owners[match[1]] = name

		body, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			problems = multierr.Append(problems, err)
			continue
		}
		for _, want := range requiredAnnotations {
			if !strings.Contains(string(body), want) {
				problems = multierr.Append(problems, fmt.Errorf("%s: missing %q", name, want))
			}
		}
	}
	return problems
}
