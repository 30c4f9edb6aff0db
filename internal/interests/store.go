package interests

import (
	"context"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	"github.com/havenfurnitures/storefront-api/pkg/pagination"
)

// ListQuery selects one page of interests, optionally narrowed to a status.
type ListQuery struct {
	Status enums.InterestStatus
	Page   pagination.Params
}

// Store persists interests. Implementations order lists by created_at DESC, id DESC.
type Store interface {
	Create(ctx context.Context, interest *models.Interest) error
	List(ctx context.Context, q ListQuery) ([]models.Interest, int64, error)
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MongoStore)(nil)
)
