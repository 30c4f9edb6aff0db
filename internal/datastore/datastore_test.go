package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

func TestOpenSQLiteMigratesOnBoot(t *testing.T) {
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test"},
		Store: config.StoreConfig{Driver: config.StoreDriverSQLite},
		DB:    config.DBConfig{SQLitePath: "file:datastore_open?mode=memory&cache=shared"},
	}
	ctx := context.Background()

	st, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Checker.Ping(ctx))

	now := time.Now().UTC()
	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Walnut Bookshelf",
		Price:     decimal.RequireFromString("249.00"),
		Category:  enums.ProductCategoryOffice,
		ImageURL:  "/walnut.png",
		InStock:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Catalog.Create(ctx, product))

	q, err := catalog.BuildListQuery(catalog.ListParams{}, 10, 100)
	require.NoError(t, err)
	products, total, err := st.Catalog.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Walnut Bookshelf", products[0].Name)
}

func TestOpenRejectsMissingPostgresDSN(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverPostgres}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestOpenRejectsMissingMongoURI(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMongo}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
