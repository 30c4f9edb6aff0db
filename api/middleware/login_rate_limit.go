package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/havenfurnitures/storefront-api/api/responses"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

const loginLimitMessage = "Too many login attempts, please try again later."

// LoginRateLimitPolicy bounds credential attempts per client address and per
// submitted email inside one Window. A zero limit disables that counter.
type LoginRateLimitPolicy struct {
	Window   time.Duration
	PerIP    int
	PerEmail int
}

func (p LoginRateLimitPolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerEmail > 0)
}

type loginGuard struct {
	policy  LoginRateLimitPolicy
	limiter WindowLimiter
	logg    *logger.Logger
}

// LoginRateLimit throttles the admin login. A counter outage rejects the
// attempt with 503 instead of letting it through.
func LoginRateLimit(policy LoginRateLimitPolicy, limiter WindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	g := loginGuard{policy: policy, limiter: limiter, logg: logg}
	return func(next http.Handler) http.Handler {
		if limiter == nil || !policy.active() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.policy.PerIP > 0 {
				if ip := clientIP(r); ip != "" && !g.admit(w, r, "ip", "login:ip:"+ip, g.policy.PerIP) {
					return
				}
			}
			if g.policy.PerEmail > 0 {
				email, err := peekEmail(r)
				if err != nil {
					responses.WriteError(r.Context(), g.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
					return
				}
				if email != "" && !g.admit(w, r, "email", "login:email:"+emailDigest(email), g.policy.PerEmail) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// admit counts one attempt and writes the rejection itself when the attempt
// may not proceed.
func (g loginGuard) admit(w http.ResponseWriter, r *http.Request, kind, scope string, limit int) bool {
	ctx := r.Context()
	res, err := g.limiter.FixedWindowAllow(ctx, scope, int64(limit), g.policy.Window)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login throttle unavailable"))
		return false
	}
	if res.Allowed {
		return true
	}
	g.logBlocked(ctx, kind, res.Count, limit)
	w.Header().Set("Retry-After", retryAfter(res.ResetIn))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, loginLimitMessage))
	return false
}

func (g loginGuard) logBlocked(ctx context.Context, kind string, attempts int64, limit int) {
	if g.logg == nil {
		return
	}
	g.logg.Warn(g.logg.WithFields(ctx, map[string]any{
		"limit_kind": kind,
		"attempts":   attempts,
		"limit":      limit,
		"window":     g.policy.Window.String(),
	}), "login attempts throttled")
}

// peekEmail reads the JSON body for its email and restores it for the
// handler. Bodies that are not JSON yield no email and are left to the
// handler to reject.
func peekEmail(r *http.Request) (string, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var creds struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &creds) != nil {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(creds.Email)), nil
}

// emailDigest keeps raw addresses out of Redis key names.
func emailDigest(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:16])
}
