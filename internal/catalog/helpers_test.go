package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db"
	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	conn, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background(), conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// newTestService returns a service over sqlite whose clock advances one second per call.
func newTestService(t *testing.T) (*service, *Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo, config.CatalogConfig{DefaultPageSize: 50, MaxPageSize: 100})
	require.NoError(t, err)

	s := svc.(*service)
	tick := baseTime
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return s, repo
}

func sampleProduct(name, price string) models.Product {
	return models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: "A well built piece of furniture.",
		Price:       decimal.RequireFromString(price),
		Category:    enums.ProductCategoryTVStands,
		ImageURL:    "https://example.test/item.png",
		InStock:     true,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}
}

func validCreateInput() CreateInput {
	return CreateInput{
		Name:        "Oak Table",
		Description: "A solid oak dining table crafted for six.",
		Price:       NewPrice(decimal.NewFromInt(50000)),
		Category:    "dining sets",
		ImageURL:    "https://example.test/a.png",
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
