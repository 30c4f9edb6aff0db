package interests

import (
	"time"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	"github.com/havenfurnitures/storefront-api/pkg/pagination"
)

// InterestDTO is the wire representation of an interest. Product is nil when
// the referenced product has since been deleted.
type InterestDTO struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Phone       string               `json:"phone"`
	Message     string               `json:"message"`
	ProductName string               `json:"productName"`
	ProductID   uuid.UUID            `json:"productId"`
	Product     *catalog.Summary     `json:"product"`
	Status      enums.InterestStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ListResult is one page of interests plus its pagination block.
type ListResult struct {
	Interests  []InterestDTO
	Pagination pagination.Meta
}

func newInterestDTO(in *models.Interest, product *catalog.Summary) *InterestDTO {
	return &InterestDTO{
		ID:          in.ID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		ProductName: in.ProductName,
		ProductID:   in.ProductID,
		Product:     product,
		Status:      in.Status,
		CreatedAt:   in.CreatedAt.UTC(),
		UpdatedAt:   in.UpdatedAt.UTC(),
	}
}
