package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
)

// IsNotFound reports whether err is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, gorm.ErrRecordNotFound)
}

// AutoMigrate creates the catalog tables from the models. Postgres deployments
// use the goose migrations instead; this path serves sqlite and tests.
func AutoMigrate(ctx context.Context, conn *gorm.DB) error {
	if err := conn.WithContext(ctx).AutoMigrate(&models.Product{}, &models.Interest{}); err != nil {
		return fmt.Errorf("auto-migrate catalog tables: %w", err)
	}
	return nil
}
