package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Browsers may send and read these in addition to the CORS-safelisted set.
var (
	corsRequestHeaders = []string{
		"Accept", "Authorization", "Content-Type",
		idempotencyHeader, requestIDHeader, "X-Requested-With",
	}
	corsExposedHeaders = []string{
		requestIDHeader, replayedHeader, "Retry-After",
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
	}
)

// CORS admits the storefront and admin origins. Preflights are cached for
// five minutes.
func CORS(origins []string) func(http.Handler) http.Handler {
	policy := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   corsRequestHeaders,
		ExposedHeaders:   corsExposedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	})
	return policy.Handler
}
