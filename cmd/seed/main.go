package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/internal/datastore"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.Store.Driver})

	st, err := datastore.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open store", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logg.Error(ctx, "error closing store", err)
		}
	}()

	svc, err := catalog.NewService(st.Catalog, cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to build catalog service", err)
		os.Exit(1)
	}

	removed, created, err := seed(ctx, st.Catalog, svc)
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"removed": removed, "inserted": len(created)}), "catalog seeded")
	for i, p := range created {
		fmt.Printf("%d. %s - $%.2f (%s)\n", i+1, p.Name, p.Price, p.Category)
	}
}

// seed replaces the whole catalog with the sample products.
func seed(ctx context.Context, store catalog.Store, svc catalog.Service) (int64, []*catalog.ProductDTO, error) {
	removed, err := store.DeleteAll(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("clear products: %w", err)
	}
	created := make([]*catalog.ProductDTO, 0, len(sampleProducts))
	for _, s := range sampleProducts {
		p, err := svc.Create(ctx, s.input())
		if err != nil {
			return removed, created, fmt.Errorf("insert %q: %w", s.name, err)
		}
		created = append(created, p)
	}
	return removed, created, nil
}
