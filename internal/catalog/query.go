package catalog

import (
	"strings"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	"github.com/havenfurnitures/storefront-api/pkg/pagination"
	"github.com/havenfurnitures/storefront-api/pkg/validate"
)

// SearchField names a product attribute the free-text search looks at.
type SearchField string

const (
	FieldName        SearchField = "name"
	FieldDescription SearchField = "description"
	FieldCategory    SearchField = "category"
)

// searchFields are OR-ed together when a search term is present.
var searchFields = []SearchField{FieldName, FieldDescription, FieldCategory}

// ListParams is the raw browse request. Zero Page/Limit select the defaults.
type ListParams struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListQuery is the resolved browse predicate shared by every store.
//
// An empty Category means no category filter. An empty Search means no text
// filter; otherwise Search is lower-cased and matched as a literal substring
// against each of Fields.
type ListQuery struct {
	Category enums.ProductCategory
	Search   string
	Fields   []SearchField
	Page     pagination.Params
}

// BuildListQuery validates params and turns them into a ListQuery.
func BuildListQuery(params ListParams, defaultLimit, maxLimit int) (ListQuery, error) {
	fields := validate.FieldErrors{}
	page, err := pagination.NewParams(params.Page, params.Limit, defaultLimit, maxLimit)
	if err != nil {
		if params.Page < 0 {
			fields.Add("page", "must be a positive integer")
		}
		if params.Limit < 0 {
			fields.Add("limit", "must be a positive integer")
		}
		return ListQuery{}, fields.Err("invalid pagination parameters")
	}

	q := ListQuery{Page: page}

	category := enums.NormalizeCategory(params.Category)
	if category != "" && category != enums.CategoryAll {
		q.Category = enums.ProductCategory(category)
	}

	if term := strings.ToLower(strings.TrimSpace(params.Search)); term != "" {
		q.Search = term
		q.Fields = append([]SearchField(nil), searchFields...)
	}
	return q, nil
}

// HasCategory reports whether results are restricted to one category.
func (q ListQuery) HasCategory() bool {
	return q.Category != ""
}

// HasSearch reports whether a text filter applies.
func (q ListQuery) HasSearch() bool {
	return q.Search != "" && len(q.Fields) > 0
}

// Offset is the number of matching products skipped before this page.
func (q ListQuery) Offset() int {
	return q.Page.Offset()
}

// Limit is the page size.
func (q ListQuery) Limit() int {
	return q.Page.Limit
}

// Matches evaluates the predicate against a single product in memory.
func (q ListQuery) Matches(p models.Product) bool {
	if q.HasCategory() && p.Category != q.Category {
		return false
	}
	if !q.HasSearch() {
		return true
	}
	for _, f := range q.Fields {
		if strings.Contains(strings.ToLower(fieldValue(p, f)), q.Search) {
			return true
		}
	}
	return false
}

func fieldValue(p models.Product, f SearchField) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldDescription:
		return p.Description
	case FieldCategory:
		return string(p.Category)
	}
	return ""
}
