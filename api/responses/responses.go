package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/pagination"
	"github.com/havenfurnitures/storefront-api/pkg/types"
)

type exposeKey struct{}

// WithErrorDetail marks ctx so error envelopes carry the internal error text.
// Only development deployments enable it.
func WithErrorDetail(ctx context.Context) context.Context {
	return context.WithValue(ctx, exposeKey{}, true)
}

func exposeDetail(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(exposeKey{}).(bool)
	return v
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope with a human readable message and optional data.
func WriteMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, types.Envelope{Success: true, Message: message, Data: data})
}

// WritePage writes a list payload with its pagination block.
func WritePage(w http.ResponseWriter, data any, meta pagination.Meta) {
	writeJSON(w, http.StatusOK, types.Envelope{Success: true, Data: data, Pagination: &meta})
}

// WriteError renders err as a failure envelope. Coded errors keep their own
// message when the code is client facing; everything else gets the code's
// generic text. 5xx are logged at error level, the rest as warnings.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	status, env := errorEnvelope(err, exposeDetail(ctx))
	if logg != nil {
		logCtx := logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
		if status >= http.StatusInternalServerError {
			logg.Error(logCtx, "request failed", err)
		} else {
			logg.Warn(logCtx, "request rejected")
		}
	}
	writeJSON(w, status, env)
}

func errorEnvelope(err error, expose bool) (int, types.Envelope) {
	coded := pkgerrors.As(err)
	if coded == nil {
		coded = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(coded.Code())

	env := types.Envelope{Message: meta.PublicMessage, Code: string(coded.Code())}
	if meta.ClientFacing && coded.Message() != "" {
		env.Message = coded.Message()
	}
	if meta.DetailsAllowed {
		env.Errors = coded.Details()
	}
	if expose && !meta.ClientFacing {
		env.Error = err.Error()
	}
	return meta.HTTPStatus, env
}

// WriteEnvelope writes a pre-built envelope, for payloads such as health
// reports that set success themselves.
func WriteEnvelope(w http.ResponseWriter, status int, env types.Envelope) {
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are gone; all that is left is to record it.
		zlog.Error().Err(err).Int("status", status).Msg("encode response body")
	}
}
