package controllers

import (
	"net/http"

	"github.com/havenfurnitures/storefront-api/api/responses"
	"github.com/havenfurnitures/storefront-api/api/validators"
	"github.com/havenfurnitures/storefront-api/internal/interests"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

// interestRequest mirrors interests.SubmitInput without its validate tags;
// the service validates after normalizing.
type interestRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}

// SubmitInterest records a customer's interest in a product.
func SubmitInterest(svc interests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "interest service unavailable"))
			return
		}

		var body interestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		interest, err := svc.Submit(r.Context(), interests.SubmitInput{
			Name:      body.Name,
			Email:     body.Email,
			Phone:     body.Phone,
			Message:   body.Message,
			ProductID: body.ProductID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusCreated, "Interest submitted successfully", interest)
	}
}

// ListInterests serves the admin lead list.
func ListInterests(svc interests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "interest service unavailable"))
			return
		}

		paging, err := validators.ParsePositiveInts(r, "page", "limit")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), interests.ListParams{
			Page:   paging["page"],
			Limit:  paging["limit"],
			Status: r.URL.Query().Get("status"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, result.Interests, result.Pagination)
	}
}
