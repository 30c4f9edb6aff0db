package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductCategoryNormalizesInput(t *testing.T) {
	tests := []struct {
		in   string
		want ProductCategory
	}{
		{"sofas", ProductCategorySofas},
		{"dining sets", ProductCategoryDiningSets},
		{"Dining_Sets", ProductCategoryDiningSets},
		{"  TV Stands ", ProductCategoryTVStands},
		{"living -  room", ProductCategoryLivingRoom},
	}
	for _, tt := range tests {
		got, err := ParseProductCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseProductCategory("lamps")
	assert.Error(t, err)
	_, err = ParseProductCategory(CategoryAll)
	assert.Error(t, err, "the list sentinel is not a storable category")
}

func TestProductCategoriesReturnsCopy(t *testing.T) {
	cats := ProductCategories()
	require.Len(t, cats, 13)
	cats[0] = "mutated"
	assert.Equal(t, ProductCategoryLivingRoom, ProductCategories()[0])
}

func TestParseInterestStatus(t *testing.T) {
	got, err := ParseInterestStatus(" Contacted ")
	require.NoError(t, err)
	assert.Equal(t, InterestStatusContacted, got)

	_, err = ParseInterestStatus("archived")
	assert.Error(t, err)
}

func TestRoleValidity(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("customer").IsValid())
}
