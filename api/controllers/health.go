package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/carbon-api/api/responses"
	"github.com/angelmondragon/carbon-api/pkg/config"
	"github.com/angelmondragon/carbon-api/pkg/logger"
	"github.com/angelmondragon/carbon-api/pkg/types"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Carbon-Env", cfg.App.Env)
		responses.WriteSuccess(w, types.StatusResponse{Status: "live"})
	}
}

// HealthReady pings every named dependency and answers 503 if any is down.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Carbon-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				ready = false
				checks[name] = "unavailable"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.ready.failed", err)
				}
				continue
			}
			checks[name] = "ok"
		}

		if !ready {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, types.StatusResponse{Status: "unavailable", Checks: checks})
			return
		}
		responses.WriteSuccess(w, types.StatusResponse{Status: "ready", Checks: checks})
	}
}
