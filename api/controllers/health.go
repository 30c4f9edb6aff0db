package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/havenfurnitures/storefront-api/api/responses"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/types"
)

const (
	healthMessage = "Haven Furnitures API is running"
	pingTimeout   = 2 * time.Second
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(context.Context) error
}

// HealthLive answers as long as the process can serve HTTP.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Haven-Env", cfg.App.Env)
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// Health pings every dependency and reports 503 when any of them fails.
func Health(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name, p := range checks {
		if p != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Haven-Env", cfg.App.Env)

		report := types.HealthStatus{
			Status:    "OK",
			Message:   healthMessage,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]string, len(names)),
		}
		healthy := true
		for _, name := range names {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			err := checks[name].Ping(ctx)
			cancel()
			if err != nil {
				healthy = false
				report.Checks[name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "health.check_failed", err)
				}
				continue
			}
			report.Checks[name] = "up"
		}

		if !healthy {
			report.Status = "DEGRADED"
			responses.WriteEnvelope(w, http.StatusServiceUnavailable, types.Envelope{Success: false, Data: report, Message: "dependency unavailable"})
			return
		}
		responses.WriteEnvelope(w, http.StatusOK, types.Envelope{Success: true, Data: report})
	}
}
