package datastore

import (
	"context"
	"fmt"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/internal/interests"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db"
	"github.com/havenfurnitures/storefront-api/pkg/docstore"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/migrate"
)

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores bundles the persistence backends selected by HAVEN_STORE_DRIVER.
type Stores struct {
	Catalog   catalog.Store
	Interests interests.Store
	Checker   Pinger
	Close     func() error
}

// Open connects the configured backend and prepares its schema.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Stores, error) {
	if cfg.Store.Driver == config.StoreDriverMongo {
		client, err := docstore.New(ctx, cfg.Mongo, logg)
		if err != nil {
			return nil, err
		}
		products := catalog.NewMongoStore(client.Database())
		inquiries := interests.NewMongoStore(client.Database())
		if err := products.EnsureIndexes(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		if err := inquiries.EnsureIndexes(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Stores{Catalog: products, Interests: inquiries, Checker: client, Close: client.Close}, nil
	}

	client, err := db.New(ctx, cfg.Store.Driver, cfg.DB, logg)
	if err != nil {
		return nil, err
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dev migrations: %w", err)
	}
	return &Stores{
		Catalog:   catalog.NewRepository(client.DB()),
		Interests: interests.NewRepository(client.DB()),
		Checker:   client,
		Close:     client.Close,
	}, nil
}
