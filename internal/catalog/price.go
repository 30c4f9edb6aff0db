package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// maxPrice is the largest value a numeric(12,2) column holds.
var maxPrice = decimal.RequireFromString("9999999999.99")

// PriceInput accepts a JSON number or a numeric string. Malformed input is
// recorded instead of failing the whole body decode, so it can be reported
// alongside the other field errors.
type PriceInput struct {
	Value   decimal.Decimal
	Set     bool
	Invalid bool
}

// NewPrice builds a set PriceInput.
func NewPrice(v decimal.Decimal) PriceInput {
	return PriceInput{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PriceInput) UnmarshalJSON(b []byte) error {
	*p = PriceInput{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	p.Set = true

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			p.Invalid = true
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			p.Set = false
			return nil
		}
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		p.Invalid = true
		return nil
	}
	p.Value = v
	return nil
}

// check returns a field message, or "" when the price is acceptable.
func (p PriceInput) check() string {
	switch {
	case !p.Set:
		return "is required"
	case p.Invalid:
		return "must be a number"
	case !p.Value.Round(2).IsPositive():
		return "must be greater than 0"
	case p.Value.Round(2).GreaterThan(maxPrice):
		return "must be at most " + maxPrice.String()
	}
	return ""
}
