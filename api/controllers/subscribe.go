package controllers

import (
	"net/http"

	"github.com/havenfurnitures/storefront-api/api/responses"
	"github.com/havenfurnitures/storefront-api/api/validators"
	"github.com/havenfurnitures/storefront-api/internal/newsletter"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

func Subscribe(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "newsletter service unavailable"))
			return
		}

		var body struct {
			Email string `json:"email"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Subscribe(r.Context(), body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Subscription successful", nil)
	}
}
