package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/havenfurnitures/storefront-api/api/responses"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	pkgredis "github.com/havenfurnitures/storefront-api/pkg/redis"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// WindowLimiter counts hits in fixed windows; pkg/redis.Client implements it.
type WindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (pkgredis.WindowResult, error)
}

// RateLimit applies a per-client fixed window to every request it wraps.
// Counter failures let the request through.
func RateLimit(limiter WindowLimiter, limit int, window time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || limit <= 0 || window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			res, err := limiter.FixedWindowAllow(ctx, "api:ip:"+clientIP(r), int64(limit), window)
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "rate_limit.unavailable", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			setRateLimitHeaders(w, res)
			if !res.Allowed {
				w.Header().Set("Retry-After", retryAfter(res.ResetIn))
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, rateLimitMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, res pkgredis.WindowResult) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining(), 10))
	h.Set("X-RateLimit-Reset", retryAfter(res.ResetIn))
}

func retryAfter(d time.Duration) string {
	secs := int64((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
