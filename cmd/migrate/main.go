package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "migrations directory for create and validate")
	flag.StringVar(&opts.name, "name", "", "name of the new migration (create)")
	flag.StringVar(&opts.version, "version", "", "target YYYYMMDDHHMMSS (version)")
	flag.Parse()

	_ = godotenv.Load()
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.cmd, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("-name is required")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations look good")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"cmd": opts.cmd, "driver": cfg.Store.Driver, "env": cfg.App.Env})

	if cfg.Store.Driver == config.StoreDriverMongo {
		logg.Info(ctx, "mongo indexes are ensured by the api at startup; nothing to migrate")
		return nil
	}

	client, err := db.New(ctx, cfg.Store.Driver, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if client.Dialect() == config.StoreDriverSQLite {
		if opts.cmd != "up" {
			return fmt.Errorf("sqlite only supports -cmd=up")
		}
		return migrate.Apply(ctx, client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}
	runner, err := migrate.NewRunner(sqlDB)
	if err != nil {
		return err
	}

	switch opts.cmd {
	case "up":
		n, err := runner.Up(ctx)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "applied", n), "migrations applied")
	case "down":
		return runner.Down(ctx)
	case "status":
		rows, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		printStatus(out, rows)
	case "version":
		if opts.version == "" {
			return errors.New("-version is required")
		}
		return runner.To(ctx, opts.version)
	default:
		return fmt.Errorf("unknown command %q", opts.cmd)
	}
	return nil
}

func printStatus(out io.Writer, rows []migrate.Status) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tAPPLIED AT\tFILE")
	for _, row := range rows {
		applied := "pending"
		if row.Applied {
			applied = row.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", row.Version, applied, row.Path)
	}
	_ = tw.Flush()
}
