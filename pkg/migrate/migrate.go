// Package migrate owns the postgres schema: goose SQL files embedded in the
// binaries, plus the sqlite fallback used by local runs.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where the create command writes new files.
const DefaultDir = "pkg/migrate/migrations"

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var FS embed.FS

// Runner drives the embedded migrations against one postgres database.
type Runner struct {
	provider *goose.Provider
}

// Status is one migration as seen by the database.
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

func NewRunner(db *sql.DB) (*Runner, error) {
	if db == nil {
		return nil, errors.New("migrate: nil database")
	}
	fsys, err := fs.Sub(FS, embeddedDir)
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migrate: provider: %w", err)
	}
	return &Runner{provider: p}, nil
}

// Up applies every pending migration and reports how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrate up: %w", err)
	}
	return len(results), nil
}

// Down rolls back the most recent migration.
func (r *Runner) Down(ctx context.Context) error {
	if _, err := r.provider.Down(ctx); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	rows, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate status: %w", err)
	}
	out := make([]Status, 0, len(rows))
	for _, row := range rows {
		out = append(out, Status{
			Version:   row.Source.Version,
			Path:      row.Source.Path,
			Applied:   row.State == goose.StateApplied,
			AppliedAt: row.AppliedAt,
		})
	}
	return out, nil
}

func (r *Runner) Version(ctx context.Context) (int64, error) {
	return r.provider.GetDBVersion(ctx)
}

// To moves the schema up or down until version is the newest applied
// migration. version uses the YYYYMMDDHHMMSS file prefix.
func (r *Runner) To(ctx context.Context, version string) error {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil || target < 0 {
		return fmt.Errorf("migrate: version %q is not a YYYYMMDDHHMMSS number", version)
	}
	current, err := r.Version(ctx)
	if err != nil {
		return fmt.Errorf("migrate: current version: %w", err)
	}
	switch {
	case target > current:
		_, err = r.provider.UpTo(ctx, target)
	case target < current:
		_, err = r.provider.DownTo(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("migrate to %d: %w", target, err)
	}
	return nil
}
