package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
)

// ErrNotFound is returned by stores when no product has the requested id.
var ErrNotFound = errors.New("product not found")

// Store persists products. Implementations must order List results by
// created_at DESC, id DESC and agree with ListQuery.Matches.
type Store interface {
	List(ctx context.Context, q ListQuery) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MongoStore)(nil)
)
