package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
)

type sample struct {
	Name     string `json:"name" validate:"required,min=1,max=5"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Category string `json:"category" validate:"required,category"`
	Image    string `json:"imageUrl" validate:"required,imageref"`
}

func TestCollectUsesJSONNames(t *testing.T) {
	fields := Collect(sample{
		Name:     "toolongname",
		Email:    "not-an-email",
		Phone:    "0123",
		Category: "lamps",
		Image:    "ftp://files/x.png",
	})

	require.Len(t, fields, 5)
	assert.Equal(t, "must be at most 5 characters", fields["name"])
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be a valid phone number", fields["phone"])
	assert.True(t, strings.HasPrefix(fields["category"], "must be one of: living-room"))
	assert.Contains(t, fields, "imageUrl")
}

func TestStructReturnsValidationError(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	ok := sample{Name: "Oak", Email: "a@b.co", Phone: "+15551234567", Category: "sofas", Image: "/x.png"}
	assert.NoError(t, Struct(ok))
}

func TestFieldErrorsKeepsFirstMessage(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("price", "is required")
	fields.Add("price", "must be greater than 0")
	assert.Equal(t, "is required", fields["price"])
	assert.Nil(t, FieldErrors{}.Err("validation failed"))
}

func TestIsPhone(t *testing.T) {
	for _, ok := range []string{"+15551234567", "15551234567", "9", "+1234567890123456"} {
		assert.True(t, IsPhone(ok), ok)
	}
	for _, bad := range []string{"", "+", "0123", "+0123", "555-1234", "12345678901234567"} {
		assert.False(t, IsPhone(bad), bad)
	}
}

func TestIsImageRef(t *testing.T) {
	assert.True(t, IsImageRef("https://example.test/a.png"))
	assert.True(t, IsImageRef("http://cdn.example.test/img/a.jpg"))
	assert.True(t, IsImageRef("/abstract-geometric-shapes.png"))
	assert.False(t, IsImageRef("//evil.test/a.png"))
	assert.False(t, IsImageRef("a.png"))
	assert.False(t, IsImageRef("javascript:alert(1)"))
	assert.False(t, IsImageRef(""))
}

type patch struct {
	Name *string `json:"name" validate:"omitnil,notblank,max=5"`
}

func TestNotBlankOnOptionalFields(t *testing.T) {
	blank, short, long := "  ", "sofa", "armchair"

	assert.Empty(t, Collect(patch{}), "nil pointers are skipped")
	assert.Empty(t, Collect(patch{Name: &short}))
	assert.Equal(t, FieldErrors{"name": "is required"}, Collect(patch{Name: &blank}))
	assert.Equal(t, FieldErrors{"name": "must be at most 5 characters"}, Collect(patch{Name: &long}))
}
