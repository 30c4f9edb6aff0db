package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/havenfurnitures/storefront-api/pkg/validate"
)

// ParsePositiveInts reads the named query parameters. Absent parameters come
// back as 0 so callers can apply defaults; anything that is not an integer
// of at least 1 is reported per field.
func ParsePositiveInts(r *http.Request, keys ...string) (map[string]int, error) {
	out := make(map[string]int, len(keys))
	failures := validate.FieldErrors{}
	query := r.URL.Query()
	for _, key := range keys {
		raw := strings.TrimSpace(query.Get(key))
		if raw == "" {
			out[key] = 0
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			failures.Add(key, "must be a positive integer")
			continue
		}
		out[key] = value
	}
	if err := failures.Err("invalid pagination parameters"); err != nil {
		return nil, err
	}
	return out, nil
}
