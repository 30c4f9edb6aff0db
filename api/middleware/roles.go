package middleware

import (
	"net/http"

	"github.com/havenfurnitures/storefront-api/api/responses"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

// RequireRole must run after Auth.
func RequireRole(role enums.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	want := role.String()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := RoleFromContext(r.Context()); got != want {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s role required", want))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
