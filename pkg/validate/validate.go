package validate

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/havenfurnitures/storefront-api/pkg/enums"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)

var std = New()

// New builds a validator that reports json field names and knows the
// storefront tags (notblank, phone, category, imageref).
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "notblank", nonstandard.NotBlank)
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return enums.ProductCategory(fl.Field().String()).IsValid()
	})
	mustRegister(v, "imageref", func(fl validator.FieldLevel) bool {
		return IsImageRef(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// FieldErrors maps a json field name to a human readable message.
type FieldErrors map[string]string

// Add records msg for field unless the field already failed.
func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; exists {
		return
	}
	f[field] = msg
}

// Err converts the collected failures into a VALIDATION_ERROR, or nil when empty.
func (f FieldErrors) Err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return pkgerrors.Validation(message, f)
}

// Collect runs struct validation and returns the failing fields.
func Collect(v any) FieldErrors {
	fields := FieldErrors{}
	err := std.Struct(v)
	if err == nil {
		return fields
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("body", err.Error())
		return fields
	}
	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return fields
}

// Struct validates v and returns a VALIDATION_ERROR listing failing fields.
func Struct(v any) error {
	return Collect(v).Err("validation failed")
}

// IsEmail reports whether s is a syntactically valid address.
func IsEmail(s string) bool {
	return std.Var(s, "required,email") == nil
}

// IsPhone matches an optional leading "+" followed by up to 16 digits, no leading zero.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsImageRef accepts absolute http(s) URLs and site-relative paths such as
// "/abstract-geometric-shapes.png".
func IsImageRef(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "phone":
		return "must be a valid phone number"
	case "category":
		return "must be one of: " + categoryList()
	case "imageref":
		return "must be an http(s) URL or a site-relative path"
	case "uuid", "uuid4":
		return "must be a valid identifier"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}

func categoryList() string {
	cats := enums.ProductCategories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
