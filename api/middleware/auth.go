package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/havenfurnitures/storefront-api/api/responses"
	pkgAuth "github.com/havenfurnitures/storefront-api/pkg/auth"
	"github.com/havenfurnitures/storefront-api/pkg/auth/session"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

// Auth admits requests carrying a valid admin bearer token whose Redis
// session has not been revoked.
func Auth(cfg config.JWTConfig, sessions session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, cfg, sessions)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if logg != nil {
				ctx = logg.WithAdmin(ctx, AdminEmailFromContext(ctx))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, cfg config.JWTConfig, sessions session.AccessSessionChecker) (context.Context, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session store unavailable")
	}

	ctx := r.Context()
	live, err := sessions.HasSession(ctx, claims.ID)
	switch {
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session lookup failed")
	case !live:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return WithAdmin(ctx, claims.Email, claims.Role.String(), claims.ID), nil
}

// bearerToken accepts "Bearer <token>" in any case, or a bare token.
func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "bearer") {
		return "", false
	}
	if scheme, rest, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "bearer") {
		header = strings.TrimSpace(rest)
	}
	return header, header != ""
}
