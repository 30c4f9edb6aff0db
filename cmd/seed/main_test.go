package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db"
)

func newCatalog(t *testing.T) (*catalog.Repository, catalog.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background(), conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := catalog.NewRepository(conn)
	svc, err := catalog.NewService(repo, config.CatalogConfig{DefaultPageSize: 50, MaxPageSize: 100})
	require.NoError(t, err)
	return repo, svc
}

func TestSeedReplacesCatalog(t *testing.T) {
	ctx := context.Background()
	repo, svc := newCatalog(t)

	removed, created, err := seed(ctx, repo, svc)
	require.NoError(t, err)
	assert.Zero(t, removed)
	require.Len(t, created, len(sampleProducts))

	removed, created, err = seed(ctx, repo, svc)
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleProducts)), removed)
	require.Len(t, created, len(sampleProducts))

	res, err := svc.List(ctx, catalog.ListParams{Category: "beds"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Pagination.Total)

	res, err = svc.List(ctx, catalog.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleProducts)), res.Pagination.Total)
}

func TestSampleFlags(t *testing.T) {
	var featured, outOfStock int
	for _, s := range sampleProducts {
		in := s.input()
		if *in.Featured {
			featured++
		}
		if !*in.InStock {
			outOfStock++
		}
	}
	assert.Equal(t, 3, featured)
	assert.Equal(t, 1, outOfStock)
}
