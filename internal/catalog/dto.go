package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	"github.com/havenfurnitures/storefront-api/pkg/pagination"
)

// ProductDTO is the wire representation of a product.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Price       float64               `json:"price"`
	Category    enums.ProductCategory `json:"category"`
	ImageURL    string                `json:"imageUrl"`
	InStock     bool                  `json:"inStock"`
	Featured    bool                  `json:"featured"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// ListResult is one page of products plus its pagination block.
type ListResult struct {
	Products   []ProductDTO
	Pagination pagination.Meta
}

// Summary is the slice of a product embedded in other resources.
type Summary struct {
	ID       uuid.UUID             `json:"id"`
	Name     string                `json:"name"`
	Price    float64               `json:"price"`
	Category enums.ProductCategory `json:"category"`
}

// NewProductDTO maps a stored product to its wire form.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

// NewSummary maps a stored product to its summary form.
func NewSummary(p models.Product) Summary {
	return Summary{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		Category: p.Category,
	}
}
