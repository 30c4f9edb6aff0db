package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/havenfurnitures/storefront-api/api/responses"
	"github.com/havenfurnitures/storefront-api/api/validators"
	"github.com/havenfurnitures/storefront-api/internal/media"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

const (
	uploadField     = "file"
	multipartMemory = 8 << 20
)

// UploadImage accepts a multipart form with the image under "file".
func UploadImage(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		var file io.Reader
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "File size must be less than the upload limit"))
				return
			case !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
				return
			}
		} else {
			defer func() {
				_ = r.MultipartForm.RemoveAll()
			}()
			f, _, err := r.FormFile(uploadField)
			if err != nil && !errors.Is(err, http.ErrMissingFile) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
				return
			}
			if f != nil {
				defer f.Close()
				file = f
			}
		}

		result, err := svc.UploadImage(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, result)
	}
}

type deleteImageRequest struct {
	PublicID       string `json:"publicId"`
	LegacyPublicID string `json:"public_id"`
}

func (d deleteImageRequest) id() string {
	if id := strings.TrimSpace(d.PublicID); id != "" {
		return id
	}
	return strings.TrimSpace(d.LegacyPublicID)
}

// DeleteImage removes a previously uploaded image. The id may also be passed
// as a query parameter.
func DeleteImage(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		var body deleteImageRequest
		if err := validators.DecodeOptionalJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id := body.id()
		if id == "" {
			id = strings.TrimSpace(r.URL.Query().Get("publicId"))
		}
		if id == "" {
			responses.WriteMessage(w, http.StatusOK, "No image to delete", nil)
			return
		}

		if err := svc.DeleteImage(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Image deleted successfully", nil)
	}
}
