package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

// wrapWriter exposes the status and size a handler produced.
func wrapWriter(w http.ResponseWriter, r *http.Request) chimw.WrapResponseWriter {
	return chimw.NewWrapResponseWriter(w, r.ProtoMajor)
}

// statusOf treats a handler that never wrote as 200, matching net/http.
func statusOf(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

// Logging emits one line per request once the handler returns. Method and
// path are attached to the context first so handler logs carry them too.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			ctx := logg.WithFields(r.Context(), map[string]any{"method": r.Method, "path": r.URL.Path})
			ww := wrapWriter(w, r)

			next.ServeHTTP(ww, r.WithContext(ctx))

			logg.Info(logg.WithFields(ctx, map[string]any{
				"status":      statusOf(ww),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(began).Milliseconds(),
				"remote_ip":   clientIP(r),
			}), "request.complete")
		})
	}
}
