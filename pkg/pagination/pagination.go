package pagination

import (
	"fmt"
	"math"
)

const (
	// DefaultPage is used when the client omits a page number.
	DefaultPage = 1
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any page may request.
	MaxLimit = 100
)

// Params holds offset pagination inputs after validation.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block returned alongside list payloads.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewParams validates page and limit, substituting defaults for zero values and
// clamping limit to maxLimit. Negative values are rejected.
func NewParams(page, limit, defaultLimit, maxLimit int) (Params, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		return Params{}, fmt.Errorf("page must be at least 1")
	}
	if limit < 1 {
		return Params{}, fmt.Errorf("limit must be at least 1")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}, nil
}

// Offset returns the number of records to skip for this page. It saturates at
// math.MaxInt, so a page past any realistic total yields no rows.
func (p Params) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta builds the response block for the supplied total.
func (p Params) Meta(total int64) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// NewMeta computes pages as ceil(total/limit).
func NewMeta(page, limit int, total int64) Meta {
	pages := 0
	if limit > 0 && total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Meta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
