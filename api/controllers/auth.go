package controllers

import (
	"context"
	"net/http"

	"github.com/havenfurnitures/storefront-api/api/middleware"
	"github.com/havenfurnitures/storefront-api/api/responses"
	"github.com/havenfurnitures/storefront-api/api/validators"
	"github.com/havenfurnitures/storefront-api/internal/auth"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

// authAction is one admin auth operation; a nil result with no error means
// the action reports success with a message only.
type authAction func(ctx context.Context, r *http.Request) (any, error)

func authEndpoint(svc auth.Service, logg *logger.Logger, message string, act authAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "admin login is not configured"))
			return
		}
		out, err := act(ctx, r)
		switch {
		case err != nil:
			responses.WriteError(ctx, logg, w, err)
		case message != "":
			responses.WriteMessage(w, http.StatusOK, message, out)
		default:
			responses.WriteSuccess(w, http.StatusOK, out)
		}
	}
}

// AuthLogin exchanges admin credentials for a bearer token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return authEndpoint(svc, logg, "", func(ctx context.Context, r *http.Request) (any, error) {
		var creds auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			return nil, err
		}
		return svc.Login(ctx, creds)
	})
}

// AuthLogout ends the caller's session; routed behind middleware.Auth.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return authEndpoint(svc, logg, "Logged out", func(ctx context.Context, _ *http.Request) (any, error) {
		return nil, svc.Logout(ctx, middleware.AccessIDFromContext(ctx))
	})
}

func AuthSession(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return authEndpoint(svc, logg, "", func(ctx context.Context, _ *http.Request) (any, error) {
		return svc.Session(ctx, middleware.AccessIDFromContext(ctx))
	})
}
