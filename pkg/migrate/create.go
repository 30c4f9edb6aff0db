package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var unsafeRun = regexp.MustCompile(`[^a-z0-9]+`)

// CreateSQLMigration writes an empty, annotated goose file to dir and
// returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now().UTC())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("migrate: directory is required")
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migrate: %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	target := filepath.Join(dir, now.Format(versionLayout)+"_"+slug+".sql")
	body := strings.Join([]string{
		"-- +goose Up",
		"-- +goose StatementBegin",
		"-- " + slug,
		"-- +goose StatementEnd",
		"",
		"-- +goose Down",
		"-- +goose StatementBegin",
		"-- rollback " + slug,
		"-- +goose StatementEnd",
		"",
	}, "\n")

	// O_EXCL refuses to clobber a file created in the same second.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("migrate: %s already exists", target)
	}
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(body); err != nil {
		_ = f.Close()
		return "", err
	}
	return target, f.Close()
}

func slugify(name string) string {
	return strings.Trim(unsafeRun.ReplaceAllString(strings.ToLower(name), "_"), "_")
}
