package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

// Product is a catalog listing. Defaults for InStock/Featured and both
// timestamps are set by the catalog service, so an explicit false survives inserts.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name        string                `gorm:"column:name;size:100;not null"`
	Description string                `gorm:"column:description;size:1000;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Category    enums.ProductCategory `gorm:"column:category;size:32;not null;index:idx_products_category"`
	ImageURL    string                `gorm:"column:image_url;not null"`
	InStock     bool                  `gorm:"column:in_stock;not null"`
	Featured    bool                  `gorm:"column:featured;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_products_created_at,sort:desc"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;not null;autoUpdateTime:false"`

	// Lower-cased copies of Name and Description for text search, kept by the repository.
	NameFolded        string `gorm:"column:name_folded;not null;default:''"`
	DescriptionFolded string `gorm:"column:description_folded;not null;default:''"`
}

func (Product) TableName() string {
	return "products"
}
