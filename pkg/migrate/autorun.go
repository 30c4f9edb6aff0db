package migrate

import (
	"context"
	"fmt"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

// Apply brings the schema current: goose for postgres, model auto-migration
// for sqlite.
func Apply(ctx context.Context, client *db.Client) error {
	switch dialect := client.Dialect(); dialect {
	case config.StoreDriverSQLite:
		return db.AutoMigrate(ctx, client.DB())
	case config.StoreDriverPostgres:
		sqlDB, err := client.DB().DB()
		if err != nil {
			return err
		}
		runner, err := NewRunner(sqlDB)
		if err != nil {
			return err
		}
		_, err = runner.Up(ctx)
		return err
	default:
		return fmt.Errorf("migrate: nothing to apply for %q", dialect)
	}
}

// MaybeRunDev migrates during boot. sqlite always does; postgres only in dev
// with HAVEN_AUTO_MIGRATE set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	onBoot := client.Dialect() == config.StoreDriverSQLite ||
		(cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate)
	if !onBoot {
		return nil
	}
	ctx = logg.WithField(ctx, "dialect", client.Dialect())
	if err := Apply(ctx, client); err != nil {
		return fmt.Errorf("boot migrations: %w", err)
	}
	logg.Info(ctx, "schema is up to date")
	return nil
}
