package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the furniture categories a product may be filed under.
type ProductCategory string

const (
	ProductCategoryLivingRoom  ProductCategory = "living-room"
	ProductCategoryBedroom     ProductCategory = "bedroom"
	ProductCategoryDining      ProductCategory = "dining"
	ProductCategoryOffice      ProductCategory = "office"
	ProductCategoryNewArrivals ProductCategory = "new-arrivals"
	ProductCategorySale        ProductCategory = "sale"
	ProductCategoryPromotion   ProductCategory = "promotion"
	ProductCategoryBOGO        ProductCategory = "bogo"
	ProductCategorySofas       ProductCategory = "sofas"
	ProductCategoryBeds        ProductCategory = "beds"
	ProductCategoryDiningSets  ProductCategory = "dining-sets"
	ProductCategoryTVStands    ProductCategory = "tv-stands"
	ProductCategoryShoeRacks   ProductCategory = "shoe-racks"
)

// CategoryAll is the list filter sentinel meaning "no category restriction".
const CategoryAll = "all"

var validProductCategories = []ProductCategory{
	ProductCategoryLivingRoom,
	ProductCategoryBedroom,
	ProductCategoryDining,
	ProductCategoryOffice,
	ProductCategoryNewArrivals,
	ProductCategorySale,
	ProductCategoryPromotion,
	ProductCategoryBOGO,
	ProductCategorySofas,
	ProductCategoryBeds,
	ProductCategoryDiningSets,
	ProductCategoryTVStands,
	ProductCategoryShoeRacks,
}

var categoryReplacer = strings.NewReplacer(" ", "-", "_", "-")

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ProductCategories returns the allowed categories in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

// NormalizeCategory lower-cases the input and folds spaces and underscores into
// hyphens, so "Dining Sets" and "dining_sets" both become "dining-sets".
func NormalizeCategory(value string) string {
	folded := categoryReplacer.Replace(strings.ToLower(strings.TrimSpace(value)))
	for strings.Contains(folded, "--") {
		folded = strings.ReplaceAll(folded, "--", "-")
	}
	return folded
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := NormalizeCategory(value)
	for _, candidate := range validProductCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
