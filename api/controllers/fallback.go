package controllers

import (
	"net/http"

	"github.com/havenfurnitures/storefront-api/api/responses"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

func NotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "API endpoint not found"))
	}
}

func MethodNotAllowed(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed"))
	}
}
