package main

import (
	"github.com/shopspring/decimal"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

type sample struct {
	name        string
	description string
	price       string
	category    enums.ProductCategory
	imageURL    string
	inStock     bool
	featured    bool
}

var sampleProducts = []sample{
	{
		name:        "Modern 3-Seater Sofa",
		description: "Comfortable and stylish 3-seater sofa perfect for any living room. Features premium fabric upholstery and solid wood frame.",
		price:       "899.99",
		category:    enums.ProductCategorySofas,
		imageURL:    "/modern-3-seater-sofa.png",
		inStock:     true,
		featured:    true,
	},
	{
		name:        "Queen Size Platform Bed",
		description: "Minimalist platform bed with built-in nightstands. Crafted from sustainable oak wood with a natural finish.",
		price:       "1299.99",
		category:    enums.ProductCategoryBeds,
		imageURL:    "/queen-platform-bed-oak.png",
		inStock:     true,
		featured:    true,
	},
	{
		name:        "6-Piece Dining Set",
		description: "Complete dining set including table and 6 chairs. Perfect for family gatherings with elegant design and durable construction.",
		price:       "1599.99",
		category:    enums.ProductCategoryDiningSets,
		imageURL:    "/six-piece-dining-set.png",
		inStock:     true,
	},
	{
		name:        "Modern TV Stand",
		description: "Sleek TV stand with cable management and storage compartments. Supports TVs up to 65 inches.",
		price:       "399.99",
		category:    enums.ProductCategoryTVStands,
		imageURL:    "/modern-tv-stand.png",
		inStock:     true,
	},
	{
		name:        "5-Tier Shoe Rack",
		description: "Space-saving shoe rack that holds up to 25 pairs. Made from durable bamboo with a natural finish.",
		price:       "79.99",
		category:    enums.ProductCategoryShoeRacks,
		imageURL:    "/placeholder-1vy5m.png",
		inStock:     true,
	},
	{
		name:        "L-Shaped Sectional Sofa",
		description: "Spacious L-shaped sectional perfect for large living rooms. Features reversible chaise and premium cushioning.",
		price:       "1499.99",
		category:    enums.ProductCategorySofas,
		imageURL:    "/gray-l-shaped-sectional.png",
		inStock:     true,
		featured:    true,
	},
	{
		name:        "King Size Storage Bed",
		description: "King size bed with built-in storage drawers. Maximize your bedroom space with this functional and stylish bed.",
		price:       "1799.99",
		category:    enums.ProductCategoryBeds,
		imageURL:    "/placeholder-p19rj.png",
	},
	{
		name:        "Compact 4-Seater Dining Set",
		description: "Perfect for small spaces. Includes round table and 4 matching chairs with comfortable cushioned seats.",
		price:       "699.99",
		category:    enums.ProductCategoryDiningSets,
		imageURL:    "/compact-round-dining-set.png",
		inStock:     true,
	},
}

func (s sample) input() catalog.CreateInput {
	inStock, featured := s.inStock, s.featured
	return catalog.CreateInput{
		Name:        s.name,
		Description: s.description,
		Price:       catalog.NewPrice(decimal.RequireFromString(s.price)),
		Category:    string(s.category),
		ImageURL:    s.imageURL,
		InStock:     &inStock,
		Featured:    &featured,
	}
}
