package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/havenfurnitures/storefront-api/api/responses"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	pkgredis "github.com/havenfurnitures/storefront-api/pkg/redis"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	replayedHeader        = "Idempotent-Replayed"
	maxIdempotencyKeyLen  = 255
	defaultIdempotencyTTL = 24 * time.Hour
	// claimTTL bounds how long a crashed request can hold its key.
	claimTTL = time.Minute
)

// replayRecord is what sits under an Idempotency-Key. A record with Pending
// set marks a request that is still being handled.
type replayRecord struct {
	Fingerprint string `json:"fingerprint"`
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency makes a create endpoint safe to retry. The first request with a
// given Idempotency-Key claims it and runs; its response is kept for ttl and
// replayed to later requests carrying the same key and body. 5xx and 429
// responses release the key so the client can retry for real. Requests
// without the header pass straight through.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if store == nil || id == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if len(id) > maxIdempotencyKeyLen {
				responses.WriteError(ctx, logg, w, pkgerrors.Validation("invalid Idempotency-Key", map[string]string{
					idempotencyHeader: "must be at most 255 characters",
				}))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, readBodyError(err))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintRequest(r, body)
			key := store.IdempotencyKey(AdminEmailFromContext(ctx)+"|"+r.Method+"|"+r.URL.Path, id)

			claim, _ := json.Marshal(replayRecord{Fingerprint: fingerprint, Pending: true})
			claimed, err := store.SetNX(ctx, key, string(claim), claimTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key"))
				return
			}
			if !claimed {
				replayExisting(ctx, store, key, fingerprint, w, logg)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// The client already has its response; bookkeeping must not be cut short.
			bg := context.WithoutCancel(ctx)
			status := capture.code()
			if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
				if err := store.Del(bg, key); err != nil && logg != nil {
					logg.Error(bg, "release idempotency key", err)
				}
				return
			}
			done, _ := json.Marshal(replayRecord{
				Fingerprint: fingerprint,
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			})
			if err := store.Set(bg, key, string(done), ttl); err != nil && logg != nil {
				logg.Error(bg, "persist idempotency record", err)
			}
		})
	}
}

func replayExisting(ctx context.Context, store pkgredis.IdempotencyStore, key, fingerprint string, w http.ResponseWriter, logg *logger.Logger) {
	raw, err := store.Get(ctx, key)
	switch {
	case pkgredis.IsNil(err):
		// Claim expired between SETNX and GET; treat as in flight.
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this Idempotency-Key is still in progress"))
		return
	case err != nil:
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load idempotency record"))
		return
	}

	var record replayRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode idempotency record"))
		return
	}
	switch {
	case record.Fingerprint != fingerprint:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case record.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this Idempotency-Key is still in progress"))
	default:
		if record.ContentType != "" {
			w.Header().Set("Content-Type", record.ContentType)
		}
		w.Header().Set(replayedHeader, "true")
		w.WriteHeader(record.Status)
		_, _ = w.Write(record.Body)
	}
}

func fingerprintRequest(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method + " " + r.URL.Path + "\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func readBodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "request body too large")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) code() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
