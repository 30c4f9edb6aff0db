package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/havenfurnitures/storefront-api/api/responses"
	"github.com/havenfurnitures/storefront-api/api/validators"
	"github.com/havenfurnitures/storefront-api/internal/catalog"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

// productRequest is shared by create and update; update treats absent fields
// as unchanged.
type productRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Price       catalog.PriceInput `json:"price"`
	Category    *string            `json:"category"`
	ImageURL    *string            `json:"imageUrl"`
	InStock     *bool              `json:"inStock"`
	Featured    *bool              `json:"featured"`
}

func (p productRequest) toCreateInput() catalog.CreateInput {
	return catalog.CreateInput{
		Name:        deref(p.Name),
		Description: deref(p.Description),
		Price:       p.Price,
		Category:    deref(p.Category),
		ImageURL:    deref(p.ImageURL),
		InStock:     p.InStock,
		Featured:    p.Featured,
	}
}

func (p productRequest) toUpdateInput() catalog.UpdateInput {
	return catalog.UpdateInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
		Featured:    p.Featured,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListProducts serves the public catalog browse endpoint.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		paging, err := validators.ParsePositiveInts(r, "page", "limit")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		result, err := svc.List(r.Context(), catalog.ListParams{
			Category: strings.TrimSpace(query.Get("category")),
			Search:   query.Get("search"),
			Page:     paging["page"],
			Limit:    paging["limit"],
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePage(w, result.Products, result.Pagination)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		product, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, product)
	}
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), body.toCreateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "product_id", product.ID.String()), "product.created")
		}
		responses.WriteMessage(w, http.StatusCreated, "Product created successfully", product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), chi.URLParam(r, "id"), body.toUpdateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Product updated successfully", product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "product_id", id), "product.deleted")
		}
		responses.WriteMessage(w, http.StatusOK, "Product deleted successfully", nil)
	}
}
